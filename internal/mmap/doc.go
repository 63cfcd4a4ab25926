// Package mmap maps trajectory files read-only into memory.
//
//	m, err := mmap.Open("run.xyz")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	frames, err := xyz.ReadAll(bytes.NewReader(m.Bytes()))
//
// Unix systems use mmap(2) and madvise(2); on Windows the file is mapped with
// CreateFileMapping/MapViewOfFile and Advise is a no-op.
//
// Bytes must not be used after Close.
package mmap
