package workflows

import (
	"context"
	"fmt"
	"time"

	"ui_workflows/application/screenplay"
	"ui_workflows/domain/entities"
)

// TableView - tasks and targets for the data grid list pages
type TableView struct {
	settings Settings
}

// NewTableView - creates the table view library
func NewTableView(settings Settings) *TableView {
	return &TableView{settings: settings.withDefaults()}
}

// WaitForTable waits for the page titled after entityName and its grid
func (v *TableView) WaitForTable(entityName string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor waits for the %ss table to be present", entityName),
		screenplay.WaitUntil(screenplay.TextOf(v.Title()), screenplay.Equals(entityName+"s")).
			WithTimeout(v.settings.TitleTimeout),
		screenplay.WaitUntil(screenplay.PresenceOf(v.ListTable()), screenplay.IsPresent()).
			WithTimeout(v.settings.TableTimeout),
	)
}

// OpenFilterMenu opens the grid filter panel. The toolbar button does not
// always react to the first click, so it is clicked safely.
func (v *TableView) OpenFilterMenu() screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor opens the filter menu"),
		screenplay.SafeClick(v.FilterMenu()),
		screenplay.WaitUntil(screenplay.VisibilityOf(v.FilterInput()), screenplay.IsVisible()).
			WithTimeout(v.settings.TitleTimeout),
	)
}

// FilterByNamedAttributes adds one filter per attribute, then waits for the
// row named after the first attribute value.
func (v *TableView) FilterByNamedAttributes(attributes []entities.NamedAttribute) screenplay.Activity {
	var first string
	if len(attributes) > 0 {
		first = attributes[0].Value
	}
	return screenplay.Where(screenplay.D("#actor filters table by multiple attributes"),
		v.OpenFilterMenu(),
		screenplay.ForEachOf(attributes, func(attr entities.NamedAttribute) screenplay.Activity {
			return screenplay.Where(screenplay.D("#actor filters %s by %q", attr.Name, attr.Value),
				screenplay.SelectOption(attr.Name).From(v.FilterColumnSelect()),
				v.FilterValue(attr.Value),
				screenplay.Click(v.AddFilter()),
			)
		}),
		v.EndFiltering(first),
	)
}

// FilterByDefaultAttribute filters on whatever column the grid proposes first
func (v *TableView) FilterByDefaultAttribute(value string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor filters table by default attribute value %q", value),
		v.OpenFilterMenu(),
		v.FilterValue(value),
		v.EndFiltering(value),
	)
}

// EndFiltering closes the filter panel and waits for the expected row
func (v *TableView) EndFiltering(checkValue string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor ends filtering"),
		screenplay.Click(v.Title()),
		screenplay.WaitUntil(screenplay.VisibilityOf(v.RowByName(checkValue)), screenplay.IsVisible()).
			WithTimeout(v.settings.TitleTimeout),
	)
}

// FilterValue types value into the last filter row
func (v *TableView) FilterValue(value string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor selects filter value %q", value),
		screenplay.Enter(value).Into(v.FilterInput()),
	)
}

// OpenItemByName clicks the name cell of the item
func (v *TableView) OpenItemByName(name string) screenplay.Activity {
	link := screenplay.Located(entities.ByCSSContainingText(`[data-field="name"] > div`, name)).
		DescribedAs(fmt.Sprintf("%q table link", name))
	return screenplay.Where(screenplay.D("#actor opens %s", name),
		screenplay.Click(link),
	)
}

// OpenItem opens the first version of an item
func (v *TableView) OpenItem(nameType, entityName string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor opens %s", entityName),
		v.OpenItemVersion(nameType, entityName, "1"),
	)
}

// OpenItemVersion opens one version of an item through the link in its nameType column
func (v *TableView) OpenItemVersion(nameType, entityName, version string) screenplay.Activity {
	row := v.RowByVersion(entityName, version)
	return screenplay.Where(screenplay.D("#actor opens %s Version %s", entityName, version),
		screenplay.WaitUntil(screenplay.PresenceOf(row), screenplay.IsPresent()).
			WithTimeout(v.settings.TitleTimeout),
		screenplay.Click(v.ItemLink(nameType).Of(row)),
	)
}

// AttributeValue answers with the text of the attributeName cell in the row of itemName
func (v *TableView) AttributeValue(itemName, attributeName string) screenplay.Question[string] {
	subject := fmt.Sprintf("the %s of %s", attributeName, itemName)
	return screenplay.About(subject, func(ctx context.Context, actor *screenplay.Actor) (string, error) {
		index, err := screenplay.AttributeOf("data-rowindex", v.RowByName(itemName)).AnsweredBy(ctx, actor)
		if err != nil {
			return "", err
		}
		return screenplay.TextOf(v.CellValue(index, attributeName, itemName)).AnsweredBy(ctx, actor)
	})
}

// VerifyDetailsInTable filters down to one version of an item and checks its columns
func (v *TableView) VerifyDetailsInTable(nameColumn, itemName, version, userOrType string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor verifies that %s has version %s in the table", itemName, version),
		v.FilterByNamedAttributes([]entities.NamedAttribute{
			{Name: nameColumn, Value: itemName},
			{Name: "Version", Value: version},
		}),
		v.VerifyValueInTable(itemName, "version", version),
		v.VerifyValueInTable(itemName, "createdBy", userOrType),
		v.VerifyValueInTable(itemName, "modelType", userOrType),
		v.VerifyTodayInTable(itemName, "createdAt"),
		v.VerifyTodayInTable(itemName, "savingTime"),
	)
}

// VerifyValueInTable checks a cell, skipping the check when the grid has no such column
func (v *TableView) VerifyValueInTable(itemName, dataField, expected string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor verifies that the table has %s value %s", dataField, expected),
		screenplay.Whether(screenplay.PresenceOf(v.column(dataField)), screenplay.IsPresent()).
			AndIfSo(screenplay.Eventually(v.AttributeValue(itemName, dataField), screenplay.Equals(expected))),
	)
}

// VerifyDateValueInTable checks that a date cell shows the UTC calendar day of expected
func (v *TableView) VerifyDateValueInTable(itemName, dataField string, expected time.Time) screenplay.Activity {
	day := expected.UTC().Format("2006-01-02")
	return screenplay.Where(screenplay.D("#actor verifies that the table has %s date value %s", dataField, day),
		screenplay.Whether(screenplay.PresenceOf(v.column(dataField)), screenplay.IsPresent()).
			AndIfSo(screenplay.Eventually(v.AttributeValue(itemName, dataField), screenplay.StartsWith(day))),
	)
}

// VerifyTodayInTable checks a date cell against the clock at the moment the check runs
func (v *TableView) VerifyTodayInTable(itemName, dataField string) screenplay.Activity {
	return screenplay.Deferred(screenplay.D("#actor verifies that the table has today as %s", dataField),
		func(context.Context, *screenplay.Actor) (screenplay.Activity, error) {
			return v.VerifyDateValueInTable(itemName, dataField, v.settings.Now()), nil
		})
}

func (v *TableView) column(dataField string) *screenplay.Target {
	return screenplay.Located(entities.ByCSS(fmt.Sprintf(`[data-field="%s"]`, dataField))).
		DescribedAs(dataField + " column")
}

func (v *TableView) FilterMenu() *screenplay.Target {
	return screenplay.Located(entities.ByCSS(`.MuiDataGrid-toolbarContainer button[aria-label="Show filters"]`)).
		DescribedAs("filter menu button")
}

func (v *TableView) FilterRows() *screenplay.Target {
	return screenplay.LocatedAll(entities.ByCSS(".MuiDataGrid-filterForm")).DescribedAs("filter rows")
}

// FilterColumnSelect is the column picker of the last filter row
func (v *TableView) FilterColumnSelect() *screenplay.Target {
	return screenplay.LocatedAll(entities.ByCSS("select")).
		Of(v.FilterRows().Last()).
		Nth(1).
		DescribedAs("filter column select")
}

func (v *TableView) FilterInput() *screenplay.Target {
	return screenplay.Located(entities.ByCSS(`input[placeholder="Filter value"]`)).
		Of(v.FilterRows().Last()).
		DescribedAs("filter input field")
}

func (v *TableView) AddFilter() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText("button", "ADD FILTER")).DescribedAs("add filter button")
}

func (v *TableView) Title() *screenplay.Target {
	return screenplay.Located(entities.ByCSS("h1")).DescribedAs("page title")
}

func (v *TableView) EntityLink(entityName string) *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(fmt.Sprintf(`[data-id="%s"] a`, entityName), entityName)).
		DescribedAs(fmt.Sprintf("%q table link", entityName))
}

func (v *TableView) ListTable() *screenplay.Target {
	return screenplay.Located(entities.ByCSS(".MuiDataGrid-root")).DescribedAs("list table")
}

func (v *TableView) DataRows() *screenplay.Target {
	return screenplay.LocatedAll(entities.ByCSS(".MuiDataGrid-row")).DescribedAs("table rows")
}

// EntityCount answers with the pagination summary, e.g. "1–10 of 42"
func (v *TableView) EntityCount() screenplay.Question[string] {
	return screenplay.TextOf(screenplay.Located(entities.ByCSS(".MuiDataGrid-Container .MuiTablePagination-displayedRows"))).
		DescribedAs("entity count")
}

func (v *TableView) RowByName(name string) *screenplay.Target {
	return screenplay.LocatedAll(entities.ByCSSContainingText(`[role="row"]`, name)).
		First().
		DescribedAs("row for " + name)
}

func (v *TableView) LinkByID(id string) *screenplay.Target {
	return screenplay.Located(entities.ByCSS(fmt.Sprintf(`[role="row"][data-id="%s"] a`, id))).
		DescribedAs("link for ID " + id)
}

// RowByVersion matches the row whose text runs the name straight into the version number
func (v *TableView) RowByVersion(entityName, version string) *screenplay.Target {
	return screenplay.LocatedAll(entities.ByCSSContainingText(`[role="row"]`, entityName+version)).
		First().
		DescribedAs(fmt.Sprintf("row for %s version %s", entityName, version))
}

func (v *TableView) ItemLink(nameType string) *screenplay.Target {
	return screenplay.Located(entities.ByCSS(fmt.Sprintf(`[data-field="%s"] a`, nameType))).
		DescribedAs(fmt.Sprintf("%q item link", nameType))
}

func (v *TableView) ColumnHeader(columnName string) *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(`[role="columnheader"] .MuiDataGrid-columnHeaderTitle`, columnName)).
		DescribedAs(fmt.Sprintf("%q column header", columnName))
}

func (v *TableView) CellValue(rowIndex, attributeName, itemName string) *screenplay.Target {
	return screenplay.Located(entities.ByCSS(fmt.Sprintf(`[role="row"][data-rowindex="%s"]>[data-field="%s"]`, rowIndex, attributeName))).
		DescribedAs(fmt.Sprintf("%s value for %s", attributeName, itemName))
}
