// Copyright (C) 2026 GatewayKit Contributors
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// WriterBackend writes log entries to an io.Writer, stderr by default.
type WriterBackend struct {
	w      io.Writer
	format string // "json" or "text"
	mu     sync.Mutex
}

// NewWriterBackend creates a backend writing to the given writer.
func NewWriterBackend(w io.Writer, format string) *WriterBackend {
	return &WriterBackend{w: w, format: format}
}

// NewStderrBackend creates a backend writing to stderr.
func NewStderrBackend(format string) *WriterBackend {
	return NewWriterBackend(os.Stderr, format)
}

// Write writes a log entry to the writer
func (b *WriterBackend) Write(entry *Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	output, err := render(entry, b.format)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(b.w, output); err != nil {
		return fmt.Errorf("failed to write log entry: %w", err)
	}
	return nil
}

// Close is a no-op for writer backends
func (b *WriterBackend) Close() error {
	return nil
}

// BufferBackend writes log entries to a buffer (for testing)
type BufferBackend struct {
	buffer *bytes.Buffer
	format string
	mu     sync.Mutex
}

// NewBufferBackend creates a new buffer backend
func NewBufferBackend(buffer *bytes.Buffer, format string) *BufferBackend {
	return &BufferBackend{buffer: buffer, format: format}
}

// Write writes a log entry to the buffer
func (b *BufferBackend) Write(entry *Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	output, err := render(entry, b.format)
	if err != nil {
		return err
	}
	if _, err := b.buffer.WriteString(output); err != nil {
		return fmt.Errorf("failed to write to buffer: %w", err)
	}
	return nil
}

// Close is a no-op for buffer backend
func (b *BufferBackend) Close() error {
	return nil
}

// FileBackend writes log entries to a file
type FileBackend struct {
	path   string
	format string
	file   *os.File
	mu     sync.Mutex
}

// NewFileBackend creates a new file backend, creating parent directories
// as needed and appending to an existing file.
func NewFileBackend(path string, format string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &FileBackend{path: path, format: format, file: file}, nil
}

// Write writes a log entry to the file
func (b *FileBackend) Write(entry *Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	output, err := render(entry, b.format)
	if err != nil {
		return err
	}
	if _, err := b.file.WriteString(output); err != nil {
		return fmt.Errorf("failed to write to log file: %w", err)
	}
	return nil
}

// Close closes the log file
func (b *FileBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.file != nil {
		return b.file.Close()
	}
	return nil
}

func render(entry *Entry, format string) (string, error) {
	if format == "json" {
		jsonBytes, err := entry.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to marshal log entry: %w", err)
		}
		return string(jsonBytes) + "\n", nil
	}
	return entry.ToText() + "\n", nil
}
