// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/stagedoor-live/stagedoor/wire"
)

// maxTranscriptLine caps a single transcript line. Payloads are small
// JSON objects; 1 MB is far beyond anything the server sends and
// mostly guards against feeding a non-transcript file to the reader.
const maxTranscriptLine = 1024 * 1024

// TranscriptReader reads a captured payload stream: one JSON object
// per line, blank lines ignored. A path ending in .zst is decompressed
// transparently.
type TranscriptReader struct {
	file    *os.File
	decoder *zstd.Decoder
	scanner *bufio.Scanner
	line    int
}

// OpenTranscript opens a transcript file for reading.
func OpenTranscript(path string) (*TranscriptReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}

	var reader io.Reader = file
	var decoder *zstd.Decoder
	if strings.HasSuffix(path, ".zst") {
		decoder, err = zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("opening transcript %s: %w", path, err)
		}
		reader = decoder
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTranscriptLine)
	return &TranscriptReader{file: file, decoder: decoder, scanner: scanner}, nil
}

// Next returns the next payload in the transcript, or io.EOF after the
// last one. A line that fails to decode stops the transcript; the
// error carries the 1-based line number.
func (r *TranscriptReader) Next() (wire.Payload, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}
		payload, err := wire.DecodePayload([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("transcript line %d: %w", r.line, err)
		}
		return payload, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	return nil, io.EOF
}

// Line returns the 1-based line number of the payload most recently
// returned by Next, or 0 before the first payload.
func (r *TranscriptReader) Line() int { return r.line }

// Close releases the reader's resources.
func (r *TranscriptReader) Close() error {
	if r.decoder != nil {
		r.decoder.Close()
	}
	return r.file.Close()
}
