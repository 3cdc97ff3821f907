package tomselect_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tomselect"
	"github.com/dmitrymomot/tomselect/registry"
)

func TestWidget_Attrs(t *testing.T) {
	t.Parallel()

	t.Run("plain single select", func(t *testing.T) {
		t.Parallel()

		w := tomselect.New(tomselect.KindSelect, tomselect.WithName("color"))
		attrs := w.Attrs()

		assert.Equal(t, "color", attrs["name"])
		assert.Equal(t, tomselect.ClassName, attrs["class"])
		assert.Equal(t, "false", attrs["data-create"])
		assert.NotContains(t, attrs, "multiple")
		assert.NotContains(t, attrs, "data-ajax--url")
		assert.NotContains(t, attrs, "data-field_id")
	})

	t.Run("multiple select carries multiple attribute", func(t *testing.T) {
		t.Parallel()

		w := tomselect.New(tomselect.KindMultiple)
		attrs := w.Attrs()

		assert.Equal(t, true, attrs["multiple"])
		assert.NotContains(t, attrs, "data-delimiter")
	})

	t.Run("tag select carries delimiter", func(t *testing.T) {
		t.Parallel()

		w := tomselect.New(tomselect.KindTag)
		assert.Equal(t, ",", w.Attrs()["data-delimiter"])

		w = tomselect.New(tomselect.KindTag, tomselect.WithDelimiter("|"))
		assert.Equal(t, "|", w.Attrs()["data-delimiter"])
	})

	t.Run("extra classes precede recognition class", func(t *testing.T) {
		t.Parallel()

		w := tomselect.New(tomselect.KindSelect, tomselect.WithClasses("form-control", "wide"))
		assert.Equal(t, "form-control wide "+tomselect.ClassName, w.Attrs()["class"])
	})

	t.Run("allow empty option flag", func(t *testing.T) {
		t.Parallel()

		w := tomselect.New(tomselect.KindSelect, tomselect.WithAllowEmptyOption())
		assert.Equal(t, "true", w.Attrs()["data-allow-empty-option"])
	})

	t.Run("create flag", func(t *testing.T) {
		t.Parallel()

		w := tomselect.New(tomselect.KindTag, tomselect.WithCreate())
		assert.Equal(t, "true", w.Attrs()["data-create"])
	})
}

func TestNewHeavy(t *testing.T) {
	t.Parallel()

	t.Run("requires a data url or a source", func(t *testing.T) {
		t.Parallel()

		_, err := tomselect.NewHeavy(tomselect.KindSelect)
		require.ErrorIs(t, err, tomselect.ErrNoDataSource)
	})

	t.Run("derives ajax attributes", func(t *testing.T) {
		t.Parallel()

		w, err := tomselect.NewHeavy(tomselect.KindSelect,
			tomselect.WithDataURL("/search/"),
		)
		require.NoError(t, err)

		attrs := w.Attrs()
		assert.Equal(t, tomselect.ClassName+" "+tomselect.HeavyClassName, attrs["class"])
		assert.Equal(t, "/search/", attrs["data-ajax--url"])
		assert.Equal(t, "GET", attrs["data-ajax--type"])
		assert.Equal(t, "true", attrs["data-ajax--cache"])
		assert.Equal(t, w.FieldID(), attrs["data-field_id"])
		assert.NotEmpty(t, w.UUID())
	})

	t.Run("source widget points at the central view", func(t *testing.T) {
		t.Parallel()

		w, err := tomselect.NewHeavy(tomselect.KindSelect, tomselect.WithSource("cities"))
		require.NoError(t, err)
		assert.Equal(t, tomselect.DefaultViewPath, w.Attrs()["data-ajax--url"])

		w, err = tomselect.NewHeavy(tomselect.KindSelect,
			tomselect.WithSource("cities"),
			tomselect.WithViewPath("/app/tomselect/auto.json"),
		)
		require.NoError(t, err)
		assert.Equal(t, "/app/tomselect/auto.json", w.Attrs()["data-ajax--url"])
	})

	t.Run("field id is signed and verifiable", func(t *testing.T) {
		t.Parallel()

		signer, err := tomselect.NewSigner(testSecret)
		require.NoError(t, err)

		w, err := tomselect.NewHeavy(tomselect.KindSelect,
			tomselect.WithSource("cities"),
			tomselect.WithSigner(signer),
		)
		require.NoError(t, err)

		uuid, err := signer.Verify(w.FieldID())
		require.NoError(t, err)
		assert.Equal(t, w.UUID(), uuid)
	})

	t.Run("dependent fields are advertised in order", func(t *testing.T) {
		t.Parallel()

		w, err := tomselect.NewHeavy(tomselect.KindSelect,
			tomselect.WithSource("cities"),
			tomselect.WithDependentFields(map[string]string{
				"region":  "region",
				"country": "country_id",
			}),
		)
		require.NoError(t, err)
		assert.Equal(t, "country region", w.Attrs()["data-tom-select-dependent-fields"])
	})

	t.Run("distinct widgets get distinct uuids", func(t *testing.T) {
		t.Parallel()

		a, err := tomselect.NewHeavy(tomselect.KindSelect, tomselect.WithSource("s"))
		require.NoError(t, err)
		b, err := tomselect.NewHeavy(tomselect.KindSelect, tomselect.WithSource("s"))
		require.NoError(t, err)
		assert.NotEqual(t, a.UUID(), b.UUID())
	})
}

func TestWidget_Component(t *testing.T) {
	t.Parallel()

	t.Run("renders choices with selection", func(t *testing.T) {
		t.Parallel()

		w := tomselect.New(tomselect.KindSelect,
			tomselect.WithName("color"),
			tomselect.WithChoices(
				tomselect.Choice{Value: "r", Label: "Red"},
				tomselect.Choice{Value: "g", Label: "Green"},
			),
		)

		var sb strings.Builder
		require.NoError(t, w.Component("g").Render(context.Background(), &sb))
		out := sb.String()

		assert.True(t, strings.HasPrefix(out, "<select"))
		assert.True(t, strings.HasSuffix(out, "</select>"))
		assert.Contains(t, out, `<option value="r">Red</option>`)
		assert.Contains(t, out, `<option value="g" selected>Green</option>`)
	})

	t.Run("escapes labels and values", func(t *testing.T) {
		t.Parallel()

		w := tomselect.New(tomselect.KindSelect,
			tomselect.WithChoices(tomselect.Choice{Value: `a"b`, Label: "<b>bold</b>"}),
		)

		var sb strings.Builder
		require.NoError(t, w.Component().Render(context.Background(), &sb))
		out := sb.String()

		assert.NotContains(t, out, "<b>bold</b>")
		assert.NotContains(t, out, `value="a"b"`)
	})

	t.Run("renders empty option when allowed", func(t *testing.T) {
		t.Parallel()

		w := tomselect.New(tomselect.KindSelect, tomselect.WithAllowEmptyOption())

		var sb strings.Builder
		require.NoError(t, w.Component().Render(context.Background(), &sb))
		assert.Contains(t, sb.String(), `<option value=""></option>`)
	})
}

func TestWidget_Register(t *testing.T) {
	t.Parallel()

	t.Run("plain widget is a no-op", func(t *testing.T) {
		t.Parallel()

		store := registry.NewMemory(registry.WithCleanupInterval(0))
		defer store.Close()
		reg := registry.New(store)

		w := tomselect.New(tomselect.KindSelect)
		require.NoError(t, w.Register(context.Background(), reg))
	})

	t.Run("heavy widget stores its spec", func(t *testing.T) {
		t.Parallel()

		store := registry.NewMemory(registry.WithCleanupInterval(0))
		defer store.Close()
		reg := registry.New(store)

		w, err := tomselect.NewHeavy(tomselect.KindSelect,
			tomselect.WithSource("cities"),
			tomselect.WithMaxResults(10),
			tomselect.WithDependentFields(map[string]string{"country": "country_id"}),
		)
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, w.Register(ctx, reg))

		spec, err := reg.Lookup(ctx, w.UUID())
		require.NoError(t, err)
		assert.Equal(t, "cities", spec.Source)
		assert.Equal(t, 10, spec.MaxResults)
		assert.Equal(t, tomselect.DefaultViewPath, spec.URL)
		assert.Equal(t, map[string]string{"country": "country_id"}, spec.DependentFields)
		assert.False(t, spec.CreatedAt.IsZero())
	})

	t.Run("registered component registers during render", func(t *testing.T) {
		t.Parallel()

		store := registry.NewMemory(registry.WithCleanupInterval(0))
		defer store.Close()
		reg := registry.New(store)

		w, err := tomselect.NewHeavy(tomselect.KindSelect, tomselect.WithSource("cities"))
		require.NoError(t, err)

		ctx := context.Background()
		var sb strings.Builder
		require.NoError(t, w.Registered(reg).Render(ctx, &sb))
		assert.Contains(t, sb.String(), "data-field_id")

		_, err = reg.Lookup(ctx, w.UUID())
		require.NoError(t, err)
	})
}
