package workflows

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ui_workflows/application/screenplay"
	"ui_workflows/domain/entities"
)

// ImportManagement - tasks for importing, updating, downloading and deleting items
type ImportManagement struct {
	settings Settings
}

// NewImportManagement - creates the import management library
func NewImportManagement(settings Settings) *ImportManagement {
	return &ImportManagement{settings: settings.withDefaults()}
}

func notEmpty() screenplay.Predicate[string] {
	return screenplay.Not(screenplay.Equals(""))
}

// CreateFromImport imports fileName as a new entityName. The name field is
// only filled, and the import only confirmed, when itemName is not empty.
func (m *ImportManagement) CreateFromImport(itemName, fileName, entityName, successMessage string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor creates %s by importing %s", itemName, fileName),
		screenplay.Click(m.ImportButton(entityName)),
		screenplay.Whether(screenplay.Static(itemName), notEmpty()).
			AndIfSo(screenplay.Enter(itemName).Into(m.NameInput(entityName))),
		m.ConfirmImport(itemName, fileName, entityName, successMessage),
	)
}

func (m *ImportManagement) ConfirmImport(itemName, fileName, entityName, successMessage string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor confirms the import"),
		m.SetImportFileLocation(fileName),
		screenplay.Eventually(screenplay.TextOf(m.ValidationMessage(entityName)), screenplay.Equals(successMessage)),
		screenplay.Whether(screenplay.Static(itemName), notEmpty()).
			AndIfSo(screenplay.Click(m.ConfirmImportButton())),
	)
}

// SetImportFileLocation points the file input at a fixture
func (m *ImportManagement) SetImportFileLocation(fileName string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor sets the import file to %s", fileName),
		screenplay.UploadFrom(screenplay.FixturePath(fileName)).To(m.FileInput()),
	)
}

// DisplayedVersion answers with the text following the "Version" label on a details page
func (m *ImportManagement) DisplayedVersion() screenplay.Question[string] {
	label := screenplay.LocatedAll(entities.ByCSSContainingText("p", "Version")).First()
	value := screenplay.Located(entities.ByXPath("following-sibling::*[1]")).Of(label).DescribedAs("displayed version")
	return screenplay.TextOf(value).DescribedAs("the displayed version")
}

// VerifyDetails checks the details page of an imported item against the file it came from
func (m *ImportManagement) VerifyDetails(itemName, version, user, fileName string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor verifies that %s has version %s created by %s and code from %s", itemName, version, user, fileName),
		screenplay.Eventually(screenplay.VisibilityOf(screenplay.Located(entities.ByCSSContainingText("h2", itemName))), screenplay.IsVisible()),
		screenplay.Eventually(m.DisplayedVersion(), screenplay.Equals(version)),
		screenplay.Eventually(screenplay.TextOf(screenplay.LocatedAll(entities.ByCSSContainingText("div", "Created By")).Last()), screenplay.EndsWith(user)),
		m.VerifyCreatedThisYear(),
		m.ReduceEditorFontSize(),
		m.VerifyCodeMatches(fileName),
	)
}

// VerifyCreatedThisYear reads the clock when it runs, not when the task is built
func (m *ImportManagement) VerifyCreatedThisYear() screenplay.Activity {
	createdAt := screenplay.TextOf(screenplay.LocatedAll(entities.ByCSSContainingText("div", "Created At")).Last())
	return screenplay.Deferred(screenplay.D("#actor verifies that the item was created this year"),
		func(context.Context, *screenplay.Actor) (screenplay.Activity, error) {
			year := strconv.Itoa(m.settings.Now().Year())
			return screenplay.Eventually(createdAt, screenplay.Includes(year)), nil
		})
}

// ReduceEditorFontSize runs the editor's decrease font size command twice so
// all of the code fits on screen without scrolling.
func (m *ImportManagement) ReduceEditorFontSize() screenplay.Activity {
	decrease := []screenplay.Activity{
		screenplay.Press("F1").In(m.CodeBlock()),
		screenplay.Press("d", "e", "c", "Enter").In(m.CommandPalette()),
	}
	steps := []screenplay.Activity{screenplay.Click(m.CodeBlock())}
	steps = append(steps, decrease...)
	steps = append(steps, decrease...)
	return screenplay.Where(screenplay.D("#actor reduces the code editor font size"), steps...)
}

// VerifyCodeMatches waits for the code block to show the fixture, ignoring formatting
func (m *ImportManagement) VerifyCodeMatches(fileName string) screenplay.Activity {
	return screenplay.Deferred(screenplay.D("#actor compares the code block with %s", fileName),
		func(ctx context.Context, actor *screenplay.Actor) (screenplay.Activity, error) {
			expected, err := m.FileContentOf(fileName).AnsweredBy(ctx, actor)
			if err != nil {
				return nil, err
			}
			return screenplay.Eventually(m.CodeContent(), screenplay.Equals(expected)), nil
		})
}

// FileContentOf answers with a fixture normalised by NormalizeCode
func (m *ImportManagement) FileContentOf(fileName string) screenplay.Question[string] {
	return screenplay.Map(screenplay.FixtureContent(fileName), "the content of file "+fileName, NormalizeCode)
}

// CodeContent answers with the code block text normalised by NormalizeCode
func (m *ImportManagement) CodeContent() screenplay.Question[string] {
	return screenplay.Map(screenplay.TextOf(m.CodeBlock()), "the content of the code block", NormalizeCode)
}

// DownloadItem clicks the download button and waits for the file to land
func (m *ImportManagement) DownloadItem(itemName string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor downloads %s", itemName),
		screenplay.AwaitDownload(m.settings.DownloadTimeout).After(screenplay.Click(m.DownloadButton())),
	)
}

// VerifyDownloadedFileMatches compares the latest download byte for byte with a fixture
func (m *ImportManagement) VerifyDownloadedFileMatches(fileName string) screenplay.Activity {
	check := screenplay.Deferred(screenplay.D("#actor compares the latest download with %s", fileName),
		func(ctx context.Context, actor *screenplay.Actor) (screenplay.Activity, error) {
			expected, err := screenplay.FixtureContent(fileName).AnsweredBy(ctx, actor)
			if err != nil {
				return nil, err
			}
			return screenplay.That(screenplay.LatestDownloadContent(), screenplay.Equals(expected)), nil
		})
	return screenplay.Where(screenplay.D("#actor verifies that the downloaded item matches %s", fileName), check)
}

// UpdateFromPage uploads a new version of entityName from its details page
func (m *ImportManagement) UpdateFromPage(entityType, entityName, fileName, successMessage string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor updates %s with %s", entityName, fileName),
		screenplay.Click(m.UpdateButton(entityType)),
		screenplay.UploadFrom(screenplay.FixturePath(fileName)).To(m.FileInput()),
		screenplay.Eventually(screenplay.TextOfAll(m.ImportMessages()),
			screenplay.ContainsAtLeastOneItemThat(screenplay.Equals(successMessage))),
		screenplay.Click(m.UpdateButton(entityType)),
		screenplay.WaitUntil(screenplay.VisibilityOf(m.ConfirmUpdateMessage(entityName)), screenplay.IsVisible()).
			WithTimeout(m.settings.UpdateTimeout),
		screenplay.Click(m.ConfirmUpdateButton()),
	)
}

// DeleteItem deletes the item shown on the current details page and waits
// for the confirmation dialog to close.
func (m *ImportManagement) DeleteItem(itemType string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor deletes the %s", itemType),
		screenplay.Click(m.DeleteButton()),
		screenplay.Eventually(screenplay.VisibilityOf(m.ConfirmDeleteHeader(itemType)), screenplay.IsVisible()),
		screenplay.Eventually(screenplay.VisibilityOf(m.ConfirmDeleteMessage(itemType)), screenplay.IsVisible()),
		screenplay.Click(m.ConfirmDeleteButton()),
		screenplay.WaitUntil(screenplay.PresenceOf(m.ConfirmDeleteHeader(itemType)), screenplay.Not(screenplay.IsPresent())).
			WithTimeout(m.settings.DialogTimeout),
	)
}

func (m *ImportManagement) DeleteButton() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText("button", "Delete")).DescribedAs("delete button")
}

func (m *ImportManagement) ConfirmDeleteHeader(itemType string) *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(`[role="dialog"] h2`, fmt.Sprintf("Delete %s?", strings.ToLower(itemType)))).
		DescribedAs("confirm delete header")
}

func (m *ImportManagement) ConfirmDeleteMessage(itemName string) *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(`[role="dialog"] p`, "Are you sure you want to delete "+itemName)).
		DescribedAs("confirm delete message")
}

func (m *ImportManagement) ConfirmDeleteButton() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(`[role="dialog"] button`, "Yes, delete")).
		DescribedAs("confirm delete button")
}

func (m *ImportManagement) DownloadButton() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText("button", "Download")).DescribedAs("download button")
}

func (m *ImportManagement) ImportButton(entityName string) *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText("button", "Import "+entityName)).
		DescribedAs(fmt.Sprintf("import %s button", entityName))
}

func (m *ImportManagement) ImportMessages() *screenplay.Target {
	return screenplay.LocatedAll(entities.ByCSS(".MuiAlert-message")).DescribedAs("all import messages")
}

func (m *ImportManagement) NameInput(entityName string) *screenplay.Target {
	return screenplay.Located(entities.ByCSS(`input[type="text"]`)).DescribedAs(entityName + " name input")
}

func (m *ImportManagement) FileInput() *screenplay.Target {
	return screenplay.Located(entities.ByCSS(`input[type="file"]`)).DescribedAs("file input")
}

func (m *ImportManagement) ValidationMessage(entityName string) *screenplay.Target {
	return m.ImportMessages().First().DescribedAs(entityName + " validation message")
}

func (m *ImportManagement) ConfirmImportButton() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText("button", "Import")).DescribedAs("import button")
}

func (m *ImportManagement) CodeBlock() *screenplay.Target {
	return screenplay.Located(entities.ByCSS(".view-lines")).DescribedAs("code block")
}

func (m *ImportManagement) CommandPalette() *screenplay.Target {
	return screenplay.Located(entities.ByCSS(`[aria-describedby="quickInput_message"]`)).
		DescribedAs("code editor command palette")
}

func (m *ImportManagement) UpdateButton(entityName string) *screenplay.Target {
	return screenplay.LocatedAll(entities.ByCSSContainingText("button", "Update "+entityName)).
		Last().
		DescribedAs(fmt.Sprintf("update %s button", entityName))
}

func (m *ImportManagement) ConfirmUpdateMessage(entityName string) *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(`[role="dialog"] p`,
		fmt.Sprintf("This will create a new version of %s. Continue?", entityName))).
		DescribedAs(fmt.Sprintf("confirm update %s message", entityName))
}

func (m *ImportManagement) ConfirmUpdateButton() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(`[role="dialog"] button`, "Yes")).
		DescribedAs("confirm update button")
}

func (m *ImportManagement) UpdatedVersionLink() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(".MuiAlert-action a", "View")).
		DescribedAs("updated version link")
}
