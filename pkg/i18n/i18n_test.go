package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslatorLocales(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"en", "id"}, tr.Languages())

	assert.Equal(t, "Sale (ID: 20240301-002) completed successfully.",
		tr.T(MsgSaleCompleted, map[string]any{"SaleID": "20240301-002"}))
	assert.Equal(t, "Penjualan (ID: 20240301-002) berhasil diselesaikan.",
		tr.T(MsgSaleCompleted, map[string]any{"SaleID": "20240301-002"}, "id-ID,id;q=0.9"))

	// Unsupported preference falls back to the default locale.
	assert.Contains(t, tr.T(MsgErrorGeneric, nil, "fr"), "Please try again")
	assert.Equal(t, "NoSuchMessage", tr.T("NoSuchMessage", nil))
}

func TestNewRejectsBadLocale(t *testing.T) {
	_, err := New("not a locale!")
	assert.Error(t, err)
}
