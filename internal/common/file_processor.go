package common

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"interviewprep/internal/errors"
	"interviewprep/internal/utils"
)

// MaxBackgroundFileSize caps --background-file reads
const MaxBackgroundFileSize = 64 * 1024

// FileProcessor reads background files and writes rendered output
type FileProcessor struct {
	logger *errors.Logger
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	if logger == nil {
		logger = errors.Discard()
	}
	return &FileProcessor{logger: logger}
}

// ReadFile returns the content of filename, failing with a validation error
// when it is larger than limit.
func (fp *FileProcessor) ReadFile(filename string, limit int64) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		code := errors.ErrCodeFileNotReadable
		if stderrors.Is(err, fs.ErrNotExist) {
			code = errors.ErrCodeFileNotFound
		}
		return "", errors.NewIOError(code, "Cannot open file: "+filename, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "Cannot read file: "+filename, err)
	}
	if int64(len(content)) > limit {
		return "", errors.NewValidationError(errors.ErrCodeInputValidation,
			fmt.Sprintf("File %s exceeds %s", filename, utils.FormatFileSize(limit)), nil).
			WithContext("file", filename)
	}
	return string(content), nil
}

// ReadBackground reads a candidate background file, trimmed
func (fp *FileProcessor) ReadBackground(filename string) (string, error) {
	if err := utils.ValidateInputFile(filename); err != nil {
		return "", errors.NewValidationError("INVALID_INPUT_FILE", "Invalid file "+filename, err)
	}
	if !utils.IsTextFile(filename) {
		fp.logger.Warn("Background file does not look like text", "filename", filename)
	}

	content, err := fp.ReadFile(filename, MaxBackgroundFileSize)
	return strings.TrimSpace(content), err
}

// WriteFile writes content to filename, creating its directory first
func (fp *FileProcessor) WriteFile(filename, content string) error {
	if err := fp.ValidateOutputFile(filename); err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED", "Cannot write file: "+filename, err)
	}
	return nil
}

// ValidateOutputFile accepts "" (stdout) or a path whose directory can be created
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE", "Invalid output file: "+filename, err)
	}
	return nil
}
