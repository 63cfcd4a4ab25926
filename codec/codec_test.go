package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("gob")
	assert.False(t, ok)
}

func TestCodecsAgree(t *testing.T) {
	curve := newBenchCurve(16)

	std := MustMarshal(JSON{}, curve)
	fast := MustMarshal(GoJSON{}, curve)
	assert.JSONEq(t, string(std), string(fast))

	var decoded benchCurve
	require.NoError(t, GoJSON{}.Unmarshal(std, &decoded))
	assert.Equal(t, curve, decoded)
}

func TestCodecs_SpeciesLabelsUnescaped(t *testing.T) {
	v := struct {
		Species []string  `json:"species"`
		Values  []float64 `json:"values"`
	}{Species: []string{"Na+<aq>", "Cl&"}, Values: []float64{1, 0.5}}

	want := `{"species":["Na+<aq>","Cl&"],"values":[1,0.5]}`
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		out, err := c.Marshal(v)
		require.NoError(t, err, c.Name())
		assert.Equal(t, want, string(out), c.Name())
	}
}

func TestMustMarshal_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}
