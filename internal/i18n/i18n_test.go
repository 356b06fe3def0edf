package i18n

import (
	"errors"
	"fmt"
	"testing"

	"questflow/internal/cursor"
	"questflow/internal/editor"
	"questflow/internal/paste"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	ja := New("ja")
	en := New("en")

	assert.Equal(t, "予兆", ja.T("Prediction"))
	assert.Equal(t, "Prediction", en.T("Prediction"))
	assert.Equal(t, "3行を貼り付けました", ja.T("Pasted %d rows", 3))
	assert.Equal(t, "Pasted 3 rows", en.T("Pasted %d rows", 3))
}

func TestUnknownLanguageFallsBackToKeys(t *testing.T) {
	tr := New("not a tag")
	assert.Equal(t, "Flows", tr.T("Flows"))
}

func TestErrorKinds(t *testing.T) {
	ja := New("ja")
	en := New("en")

	wrapped := fmt.Errorf("paste at row 2: %w", paste.ErrTooManyColumns)
	assert.Equal(t, "貼り付けたデータの列数が表の列数を超えています。", ja.Error(wrapped))
	assert.Equal(t, "The pasted data has more columns than the table.", en.Error(wrapped))

	assert.Equal(t, "The paste column is not part of the table.", en.Error(paste.ErrInvalidStartField))
	assert.Equal(t, "貼り付けるデータがありません。", ja.Error(paste.ErrNoValidRows))

	rangeErr := &cursor.RangeError{Row: 11, RowCount: 10}
	assert.Equal(t, rangeErr.Error(), ja.Error(rangeErr))
	assert.Equal(t, "Row must be at most the flow's row count (10).", en.Error(rangeErr))
	assert.Equal(t, "Row must be 0 or greater.", en.Error(&cursor.RangeError{Row: -1}))

	noRow := fmt.Errorf("%w: %d", editor.ErrNoSuchRow, 3)
	assert.Equal(t, "That row does not exist.", en.Error(noRow))
	assert.Equal(t, "指定された行は存在しません。", ja.Error(noRow))

	assert.Equal(t, "boom", en.Error(errors.New("boom")))
	assert.Equal(t, "", en.Error(nil))
}
