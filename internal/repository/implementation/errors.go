package implementation

import (
	"errors"
	"strings"

	"neomind-chat-be/internal/repository/contract"

	"gorm.io/gorm"
)

// translateError maps unique violations to contract.ErrDuplicateKey. Drivers that do
// not implement gorm's error translation are matched on their message.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contract.ErrDuplicateKey
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value") {
		return contract.ErrDuplicateKey
	}
	return err
}
