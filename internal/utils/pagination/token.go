package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/household_ledger/internal/core/domain"
)

// EncodeEntryToken creates a base64 encoded token from an entry date and display order.
// Register pages are ordered by (date, displayOrder) so the pair identifies a position.
func EncodeEntryToken(entryDate domain.Date, displayOrder int64) string {
	return EncodeMultiFieldToken(entryDate.String(), strconv.FormatInt(displayOrder, 10))
}

// DecodeEntryToken parses the base64 encoded token back into entry date and display order.
func DecodeEntryToken(token string) (domain.Date, int64, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return domain.Date{}, 0, err
	}
	if len(parts) != 2 {
		return domain.Date{}, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := domain.ParseDate(parts[0])
	if err != nil {
		return domain.Date{}, 0, fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}

	displayOrder, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.Date{}, 0, fmt.Errorf("invalid pagination token format (display order parse): %w", err)
	}

	return entryDate, displayOrder, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	return strings.Split(string(decodedBytes), "|"), nil
}
