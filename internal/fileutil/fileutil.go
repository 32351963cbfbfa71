// Package fileutil holds file helpers shared by the command and tests.
package fileutil

import (
	"fmt"
	"os"
)

// OwnerReadWrite is the permission mode for reports and catalog fixtures
// (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// CreateReport creates or truncates the report file at path.
func CreateReport(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, OwnerReadWrite)
	if err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}
	return f, nil
}
