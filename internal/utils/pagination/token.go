package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeToken creates a base64 encoded keyset cursor from the commit time and record ID
// of the last record on a page. Both the pgsql and memory stores use it so tokens are
// portable between them.
func EncodeToken(committedAt time.Time, recordID string) string {
	tokenStr := fmt.Sprintf("%s|%s", committedAt.UTC().Format(timeFormat), recordID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into commit time and record ID.
func DecodeToken(token string) (time.Time, string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	committedAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (committed_at parse): %w", err)
	}
	return committedAt, parts[1], nil
}

// Before reports whether the record (at, id) sorts after the cursor (cursorAt, cursorID)
// in newest-first order, i.e. belongs on a later page.
func Before(at time.Time, id string, cursorAt time.Time, cursorID string) bool {
	if !at.Equal(cursorAt) {
		return at.Before(cursorAt)
	}
	return id < cursorID
}
