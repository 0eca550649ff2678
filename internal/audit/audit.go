// Package audit keeps a file journal of catalog writes. Each accepted
// create, modify or delete request is saved as one <uuid>.json file.
package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one journaled write request.
type Entry struct {
	Method  string          `json:"method"`
	Path    string          `json:"path"`
	Status  int             `json:"status"`
	Time    time.Time       `json:"time"`
	Payload json.RawMessage `json:"payload,omitempty"`
	// Truncated marks a body too large to journal; Payload is then empty
	// and BodySize holds the number of bytes seen before giving up.
	Truncated bool  `json:"truncated,omitempty"`
	BodySize  int64 `json:"body_size,omitempty"`
}

type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// SaveJSON saves the provided data as JSON to a file with UUID4 filename
func (a *Auditor) SaveJSON(data any) (string, error) {
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	filename := fmt.Sprintf("%s.json", uuid.New().String())
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	return filename, nil
}

// Record journals a write request. Payloads that are not valid JSON are
// stored as a JSON string.
func (a *Auditor) Record(entry Entry) (string, error) {
	if entry.Truncated {
		entry.Payload = nil
	} else if len(entry.Payload) > 0 && !json.Valid(entry.Payload) {
		quoted, _ := json.Marshal(string(entry.Payload))
		entry.Payload = quoted
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}
	return a.SaveJSON(entry)
}

// RecordAsync journals in the background; failures are only logged.
func (a *Auditor) RecordAsync(entry Entry) {
	go func() {
		if _, err := a.Record(entry); err != nil {
			log.Printf("Failed to write audit entry: %v", err)
		}
	}()
}

// DeleteOlderThan removes journal files last modified before now minus
// retention. A missing directory is not an error.
func (a *Auditor) DeleteOlderThan(retention time.Duration) (int64, error) {
	entries, err := os.ReadDir(a.AuditDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read audit directory: %w", err)
	}

	cutoff := time.Now().Add(-retention)
	var deleted int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(a.AuditDir, e.Name())); err != nil {
				return deleted, fmt.Errorf("failed to remove audit file %s: %w", e.Name(), err)
			}
			deleted++
		}
	}
	return deleted, nil
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
