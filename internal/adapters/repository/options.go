package repository

import "github.com/okian/eventdash/pkg/logger"

// Option applies a configuration option to the FileSource.
type Option func(*FileSource)

// WithFormat overrides the format detected from the file extension.
func WithFormat(format Format) Option {
	return func(s *FileSource) {
		if format != "" {
			s.format = format
		}
	}
}

// WithSheet selects the workbook sheet for XLSX sources. The first sheet is
// used when unset.
func WithSheet(name string) Option {
	return func(s *FileSource) {
		s.sheet = name
	}
}

// WithLogger sets a custom logger for the source.
func WithLogger(l logger.Logger) Option {
	return func(s *FileSource) {
		if l != nil {
			s.logger = l
		}
	}
}
