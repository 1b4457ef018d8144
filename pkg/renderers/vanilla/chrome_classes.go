package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassPage       ChromeClass = "crudconsole-page"
	ClassForm       ChromeClass = "crudconsole-form"
	ClassFilters    ChromeClass = "crudconsole-filters"
	ClassActions    ChromeClass = "crudconsole-actions"
	ClassTable      ChromeClass = "crudconsole-table"
	ClassEmpty      ChromeClass = "crudconsole-empty"
	ClassRowActions ChromeClass = "crudconsole-row-actions"
)

func classMap() map[string]string {
	return map[string]string{
		"page":       string(ClassPage),
		"form":       string(ClassForm),
		"filters":    string(ClassFilters),
		"actions":    string(ClassActions),
		"table":      string(ClassTable),
		"empty":      string(ClassEmpty),
		"rowActions": string(ClassRowActions),
	}
}
