package check

// Severity of a table issue:
// - BLOCK for tables that cannot be searched or appended to reliably
// - WARN for rows that break the table shape
// - INFO for conditions worth reporting

const (
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityBlock = "BLOCK"
)

const (
	KindEmptyColumnName = "empty_column_name"
	KindDuplicateColumn = "duplicate_column"
	KindMissingCell     = "missing_cell"
	KindUnknownCell     = "unknown_cell"
	KindUnrepresentable = "unrepresentable_cell"
	KindEmptyTable      = "empty_table"
)

func SeverityForKind(kind string) string {
	switch kind {
	case KindEmptyColumnName, KindDuplicateColumn:
		return SeverityBlock
	case KindMissingCell, KindUnknownCell:
		return SeverityWarn
	default:
		return SeverityInfo
	}
}

// MessageForKind returns a concise message for the given issue kind.
func MessageForKind(kind string) string {
	switch kind {
	case KindEmptyColumnName:
		return "column name is empty"
	case KindDuplicateColumn:
		return "column declared more than once"
	case KindMissingCell:
		return "row has no value for column"
	case KindUnknownCell:
		return "row has a value for an undeclared column"
	case KindUnrepresentable:
		return "cell cannot be converted to text; it never matches"
	case KindEmptyTable:
		return "table has no rows"
	default:
		return ""
	}
}
