package i18n_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hours-engine/i18n"
)

func TestTranslator_DefaultLocale(t *testing.T) {
	tr, err := i18n.New("en")
	require.NoError(t, err)

	ctx := context.Background()
	assert.Equal(t, "Lunch return", tr.T(ctx, "punch.lunch_in"))
	assert.Equal(t, "Holiday", tr.T(ctx, "status.holiday"))
	assert.Equal(t, "CLT (fixed)", tr.T(ctx, "regime.salaried_fixed"))
}

func TestTranslator_AcceptLanguage(t *testing.T) {
	// GIVEN: An English default and a Portuguese browser
	// THEN: Portuguese labels are returned

	tr, err := i18n.New("en")
	require.NoError(t, err)

	ctx := i18n.WithLocale(context.Background(), "pt-BR,pt;q=0.9,en;q=0.8")

	assert.Equal(t, "Retorno Almoço", tr.T(ctx, "punch.lunch_in"))
	assert.Equal(t, "Sem registro", tr.T(ctx, "status.missing"))
	assert.Equal(t, "pt-BR,pt;q=0.9,en;q=0.8", i18n.LocaleFromContext(ctx))
}

func TestTranslator_UnsupportedLocaleFallsBack(t *testing.T) {
	tr, err := i18n.New("pt-BR")
	require.NoError(t, err)

	ctx := i18n.WithLocale(context.Background(), "de-DE")

	assert.Equal(t, "Entrada", tr.T(ctx, "punch.entry"))
}

func TestTranslator_TemplateData(t *testing.T) {
	tr, err := i18n.New("en")
	require.NoError(t, err)

	msg := tr.T(context.Background(), "punch.recorded", map[string]any{"Kind": "Entry", "Time": "08:02"})

	assert.Equal(t, "Entry recorded at 08:02", msg)
}

func TestTranslator_UnknownMessage(t *testing.T) {
	tr, err := i18n.New("")
	require.NoError(t, err)

	assert.Equal(t, "status.unknown", tr.T(context.Background(), "status.unknown"))
	assert.Len(t, tr.Languages(), 2)
}

func TestNew_InvalidLocale(t *testing.T) {
	_, err := i18n.New("not a locale!")
	assert.Error(t, err)
}
