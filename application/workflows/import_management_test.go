package workflows

import (
	"context"
	"testing"
	"time"

	"ui_workflows/application/screenplay"
	"ui_workflows/application/screenplay/screenplaytest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importPage(message string) *screenplaytest.Node {
	doc := document()
	open := el("import Model button", "button").WithText("Import Model")
	open.OnClick = func(n *screenplaytest.Node) {
		n.Remove()
		doc.Append(el("import dialog", `[role="dialog"]`).Append(
			el("name input", `input[type="text"]`),
			el("file input", `input[type="file"]`),
			el("validation", ".MuiAlert-message").WithText(message),
			el("confirm import", "button").WithText("Import"),
		))
	}
	return doc.Append(open)
}

func TestImportManagement_CreateFromImport(t *testing.T) {
	f := newFixture(t, importPage("Validation successful"))
	imports := NewImportManagement(testSettings())

	err := f.actor.AttemptsTo(context.Background(),
		imports.CreateFromImport("pump", "model.yml", "Model", "Validation successful"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"click import Model button",
		"fill pump into name input",
		"upload data/model.yml to file input",
		"click confirm import",
	}, f.driver.Log())
}

func TestImportManagement_CreateFromImportWithoutName(t *testing.T) {
	f := newFixture(t, importPage("Validation successful"))
	imports := NewImportManagement(testSettings())

	err := f.actor.AttemptsTo(context.Background(),
		imports.CreateFromImport("", "model.yml", "Model", "Validation successful"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"click import Model button",
		"upload data/model.yml to file input",
	}, f.driver.Log())
}

func TestImportManagement_ValidationFailureCarriesTrail(t *testing.T) {
	f := newFixture(t, importPage("Invalid YAML"))
	imports := NewImportManagement(testSettings())

	err := f.actor.AttemptsTo(context.Background(),
		imports.CreateFromImport("pump", "model.yml", "Model", "Validation successful"),
	)
	var timeout *screenplay.AssertionTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "Invalid YAML", timeout.LastValue)
	assert.Equal(t, []string{
		"Olivia creates pump by importing model.yml",
		"Olivia confirms the import",
	}, screenplay.Trail(err))
	assert.NotContains(t, f.driver.Log(), "click confirm import")
}

func detailsPage(code string) *screenplaytest.Node {
	editor := el("code block", ".view-lines").WithText(code)
	return document(
		el("heading", "h2").WithText("pump"),
		el("details", "div").Append(
			el("version label", "p").WithText("Version"),
			el("version value", "span").WithText("2"),
		),
		el("created by", "div").WithText("Created By ada"),
		el("created at", "div").WithText("Created At 18/10/2026"),
		editor,
		el("palette", `[aria-describedby="quickInput_message"]`),
	)
}

func TestImportManagement_DisplayedVersion(t *testing.T) {
	f := newFixture(t, detailsPage(""))
	imports := NewImportManagement(testSettings())

	version, err := imports.DisplayedVersion().AnsweredBy(context.Background(), f.actor)
	require.NoError(t, err)
	assert.Equal(t, "2", version)
}

func TestImportManagement_VerifyDetails(t *testing.T) {
	f := newFixture(t, detailsPage("name: pump\n  version:   2\n"))
	f.files.Fixtures["model.yml"] = "name: pump\r\nversion: 2\r\n"
	imports := NewImportManagement(testSettings())

	err := f.actor.AttemptsTo(context.Background(), imports.VerifyDetails("pump", "2", "ada", "model.yml"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"click code block",
		"press F1 in code block",
		"press d in palette",
		"press e in palette",
		"press c in palette",
		"press Enter in palette",
		"press F1 in code block",
		"press d in palette",
		"press e in palette",
		"press c in palette",
		"press Enter in palette",
	}, f.driver.Log())
}

func TestImportManagement_VerifyDetailsCodeMismatch(t *testing.T) {
	f := newFixture(t, detailsPage("name: valve"))
	f.files.Fixtures["model.yml"] = "name: pump"
	imports := NewImportManagement(testSettings())

	err := f.actor.AttemptsTo(context.Background(), imports.VerifyCodeMatches("model.yml"))
	var timeout *screenplay.AssertionTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "name valve", timeout.LastValue)
	assert.Contains(t, err.Error(), "name [-pump-]{+valve+}")
}

func TestImportManagement_VerifyCodeMatchesMissingFixture(t *testing.T) {
	f := newFixture(t, detailsPage("name: pump"))
	imports := NewImportManagement(testSettings())

	err := f.actor.AttemptsTo(context.Background(), imports.VerifyCodeMatches("missing.yml"))
	var unhandled *screenplay.UnhandledStepError
	require.ErrorAs(t, err, &unhandled)
	assert.Contains(t, err.Error(), "data/missing.yml")
}

func TestImportManagement_DownloadRoundTrip(t *testing.T) {
	download := el("download", "button").WithText("Download")
	f := newFixture(t, document(download))
	f.files.Fixtures["model.yml"] = "name: pump\n"
	download.OnClick = func(*screenplaytest.Node) { f.files.AddDownload("pump.yml", "name: pump\n") }
	imports := NewImportManagement(testSettings())

	err := f.actor.AttemptsTo(context.Background(),
		imports.DownloadItem("pump"),
		imports.VerifyDownloadedFileMatches("model.yml"),
	)
	require.NoError(t, err)

	f.files.AddDownload("zz-other.yml", "name: valve\n")
	err = f.actor.AttemptsTo(context.Background(), imports.VerifyDownloadedFileMatches("model.yml"))
	var failure *screenplay.AssertionFailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "name: valve\n", failure.Actual)
}

func TestImportManagement_DeleteItem(t *testing.T) {
	doc := document()
	remove := el("delete", "button").WithText("Delete")
	remove.OnClick = func(*screenplaytest.Node) {
		dialog := el("delete dialog", `[role="dialog"]`)
		confirm := el("yes delete", `[role="dialog"] button`).WithText("Yes, delete")
		confirm.OnClick = func(*screenplaytest.Node) { dialog.Remove() }
		doc.Append(dialog.Append(
			el("delete header", `[role="dialog"] h2`).WithText("Delete model?"),
			el("delete message", `[role="dialog"] p`).WithText("Are you sure you want to delete Model pump?"),
			confirm,
		))
	}
	f := newFixture(t, doc.Append(remove))
	imports := NewImportManagement(testSettings())

	require.NoError(t, f.actor.AttemptsTo(context.Background(), imports.DeleteItem("Model")))
	assert.Equal(t, []string{"click delete", "click yes delete"}, f.driver.Log())
}

func TestImportManagement_UpdateFromPage(t *testing.T) {
	doc := document(
		el("file input", `input[type="file"]`),
		el("warning", ".MuiAlert-message").WithText("Name unchanged"),
		el("success", ".MuiAlert-message").WithText("Validation successful"),
	)
	update := el("update", "button").WithText("Update Model")
	clicks := 0
	update.OnClick = func(*screenplaytest.Node) {
		clicks++
		if clicks == 2 {
			doc.Append(el("confirm dialog", `[role="dialog"]`).Append(
				el("confirm message", `[role="dialog"] p`).WithText("This will create a new version of pump. Continue?"),
				el("yes", `[role="dialog"] button`).WithText("Yes"),
			))
		}
	}
	f := newFixture(t, doc.Append(update))
	imports := NewImportManagement(testSettings())

	err := f.actor.AttemptsTo(context.Background(), imports.UpdateFromPage("Model", "pump", "model-v2.yml", "Validation successful"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"click update",
		"upload data/model-v2.yml to file input",
		"click update",
		"click yes",
	}, f.driver.Log())
}

func TestImportManagement_CreatedYearIsReadWhenTheCheckRuns(t *testing.T) {
	f := newFixture(t, detailsPage(""))
	now := fixedNow.AddDate(-1, 0, 0)
	settings := testSettings()
	settings.Now = func() time.Time { return now }
	imports := NewImportManagement(settings)

	check := imports.VerifyCreatedThisYear()
	now = fixedNow
	assert.NoError(t, f.actor.AttemptsTo(context.Background(), check))

	now = fixedNow.AddDate(1, 0, 0)
	err := f.actor.AttemptsTo(context.Background(), check)
	var timeout *screenplay.AssertionTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "Created At 18/10/2026", timeout.LastValue)
}
