package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimvic/schedule-sync/internal/models"
	"github.com/gimvic/schedule-sync/pkg/config"
	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
)

func solsisAdapter(daysAhead int) *Solsis {
	adapter := NewSolsis(config.SolsisConfig{
		URL:        "https://solsis.example/gateway.php",
		ServerName: "gimvic",
		APIKey:     "api-key",
		DaysAhead:  daysAhead,
	})
	adapter.now = func() time.Time {
		return time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	}
	return adapter
}

func TestSolsisList(t *testing.T) {
	adapter := solsisAdapter(2)
	docs, err := adapter.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "https://solsis.example/gateway.php?func=gateway&call=suplence&datum=2024-03-04", docs[0].URL)
	assert.Equal(t, "https://solsis.example/gateway.php?func=gateway&call=suplence&datum=2024-03-06", docs[2].URL)
	for _, d := range docs {
		assert.Equal(t, models.KindSubstitutions, d.Kind)
		assert.True(t, d.Reprocess)
	}
}

func TestSolsisFetchURLSignature(t *testing.T) {
	adapter := solsisAdapter(0)

	fetch := adapter.FetchURL("https://solsis.example/gateway.php?func=gateway&call=suplence&datum=2024-03-04")
	parsed, err := url.Parse(fetch)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "gateway", query.Get("func"))
	assert.Equal(t, "suplence", query.Get("call"))
	assert.Equal(t, "2024-03-04", query.Get("datum"))
	require.Len(t, query.Get("nonsense"), 32)

	params := "func=gateway&call=suplence&datum=2024-03-04&nonsense=" + query.Get("nonsense")
	sum := sha256.Sum256([]byte("gimvic||" + params + "||api-key"))
	assert.Equal(t, hex.EncodeToString(sum[:]), query.Get("signature"))

	// A fresh nonce on every request.
	again := adapter.FetchURL("https://solsis.example/gateway.php?func=gateway&call=suplence&datum=2024-03-04")
	assert.NotEqual(t, fetch, again)
}

func TestSolsisEffectiveDate(t *testing.T) {
	adapter := solsisAdapter(0)

	date, err := adapter.EffectiveDate(Descriptor{URL: "https://solsis.example/gateway.php?func=gateway&call=suplence&datum=2024-03-04"})
	require.NoError(t, err)
	require.NotNil(t, date)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), *date)

	_, err = adapter.EffectiveDate(Descriptor{URL: "https://solsis.example/gateway.php"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownDateFormat.Code, appErrors.FromError(err).Code)
}

func TestSolsisParseEmptyPayload(t *testing.T) {
	adapter := solsisAdapter(0)

	effective := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	result, err := adapter.Parse(Descriptor{Kind: models.KindSubstitutions}, []byte(`{"datum":"2024-03-04"}`), &effective)
	require.NoError(t, err)
	assert.Empty(t, result.Substitutions)
}
