package screenplay

import (
	"context"
	"regexp"
	"testing"

	"ui_workflows/application/screenplay/screenplaytest"
	"ui_workflows/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid() (*screenplaytest.Node, *screenplaytest.Driver) {
	row := func(name, version, index string) *screenplaytest.Node {
		return screenplaytest.El("row "+name+version, `[role="row"]`).WithAttr("data-rowindex", index).Append(
			screenplaytest.El("name "+name, `[data-field="name"]`).WithText(name),
			screenplaytest.El("version "+name+version, `[data-field="version"]`).WithText(version),
			screenplaytest.El("menu "+name+version, `[aria-haspopup="menu"]`),
		)
	}
	doc := page(
		screenplaytest.El("title", "h1").WithText("Models"),
		row("alpha", "1", "0"),
		row("beta", "1", "1"),
		row("beta", "2", "2"),
	)
	return doc, screenplaytest.NewDriver(doc)
}

var rows = LocatedAll(entities.ByCSS(`[role="row"]`)).DescribedAs("rows")

func TestTarget_Ordinals(t *testing.T) {
	_, driver := grid()
	actor := newTestActor(t, driver)
	ctx := context.Background()

	first, err := rows.First().Resolve(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "row alpha1", first.String())

	last, err := rows.Last().Resolve(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "row beta2", last.String())

	second, err := rows.Nth(1).Resolve(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "row beta1", second.String())

	_, err = rows.Nth(7).Resolve(ctx, actor)
	assert.True(t, IsNotFound(err))

	all, err := rows.ResolveAll(ctx, actor)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTarget_ScopedAndFiltered(t *testing.T) {
	_, driver := grid()
	actor := newTestActor(t, driver)
	names := Located(entities.ByCSS(`[data-field="name"]`))

	betaRows := rows.Where(Matching(TextOf(names), Equals("beta")))
	menu := LocatedAll(entities.ByCSS(`[aria-haspopup="menu"]`)).Of(betaRows.Last()).First()

	el, err := menu.Resolve(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, "menu beta2", el.String())

	count, err := CountOf(betaRows).AnsweredBy(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTarget_MissingParentIsNotFound(t *testing.T) {
	_, driver := grid()
	actor := newTestActor(t, driver)
	ghost := Located(entities.ByCSS(".ghost")).DescribedAs("ghost row")

	_, err := Located(entities.ByCSS(`[data-field="name"]`)).Of(ghost).Resolve(context.Background(), actor)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ghost row", nf.Target)

	present, err := PresenceOf(Located(entities.ByCSS(`[data-field="name"]`)).Of(ghost)).AnsweredBy(context.Background(), actor)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestTarget_ResolvedAtPointOfUse(t *testing.T) {
	doc, driver := grid()
	actor := newTestActor(t, driver)

	before, err := CountOf(rows).AnsweredBy(context.Background(), actor)
	require.NoError(t, err)
	driver.Mutate(func() { doc.Children[1].Remove() })
	after, err := CountOf(rows).AnsweredBy(context.Background(), actor)
	require.NoError(t, err)

	assert.Equal(t, 3, before)
	assert.Equal(t, 2, after)
}

func TestTarget_ContainingTextAndXPathParent(t *testing.T) {
	doc := page(screenplaytest.El("details", "div").Append(
		screenplaytest.El("version label", "p").WithText("Version"),
		screenplaytest.El("version value", "span").WithText("3"),
	))
	actor := newTestActor(t, screenplaytest.NewDriver(doc))

	label := LocatedAll(entities.ByCSSContainingText("p", "Version")).First()
	container := Located(entities.ByXPath("..")).Of(label)
	text, err := TextOf(container).AnsweredBy(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, "Version3", text)
}

func TestTarget_Describe(t *testing.T) {
	menu := LocatedAll(entities.ByCSS("button")).Of(rows.First()).Last()
	assert.Equal(t, "last of elements located by css (button) of first of rows", menu.Describe())
}

func TestQuestion_Reducers(t *testing.T) {
	_, driver := grid()
	actor := newTestActor(t, driver)
	ctx := context.Background()
	names := TextOfAll(LocatedAll(entities.ByCSS(`[data-field="name"]`)))

	first, err := FirstOf(names).AnsweredBy(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "alpha", first)

	last, err := LastOf(names).AnsweredBy(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "beta", last)

	n, err := LengthOf(names).AnsweredBy(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = FirstOf(TextOfAll(LocatedAll(entities.ByCSS(".none")))).AnsweredBy(ctx, actor)
	assert.True(t, IsNotFound(err))

	title, err := Replace(TextOf(Located(entities.ByCSS("h1"))), regexp.MustCompile(`s$`), "").AnsweredBy(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "Model", title)
}
