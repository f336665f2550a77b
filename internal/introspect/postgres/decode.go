package postgres

import "strings"

// Catalog code decoding. The single-character codes come straight from
// pg_catalog columns (pg_constraint.confdeltype, pg_attribute.attidentity,
// pg_trigger.tgtype) and are stable across PostgreSQL versions.

// decodeRefAction maps a pg_constraint referential-action code to its
// SQL keyword.
func decodeRefAction(code string) string {
	switch code {
	case "a":
		return "NO ACTION"
	case "r":
		return "RESTRICT"
	case "c":
		return "CASCADE"
	case "n":
		return "SET NULL"
	case "d":
		return "SET DEFAULT"
	default:
		return ""
	}
}

// decodeIdentity maps pg_attribute.attidentity to the GENERATED clause
// wording.
func decodeIdentity(code string) string {
	switch code {
	case "a":
		return "ALWAYS"
	case "d":
		return "BY DEFAULT"
	default:
		return ""
	}
}

// pg_trigger.tgtype bit layout.
const (
	tgTypeRow       = 1 << 0
	tgTypeBefore    = 1 << 1
	tgTypeInsert    = 1 << 2
	tgTypeDelete    = 1 << 3
	tgTypeUpdate    = 1 << 4
	tgTypeTruncate  = 1 << 5
	tgTypeInsteadOf = 1 << 6
)

func decodeTriggerTiming(tgtype int16) string {
	switch {
	case tgtype&tgTypeInsteadOf != 0:
		return "INSTEAD OF"
	case tgtype&tgTypeBefore != 0:
		return "BEFORE"
	default:
		return "AFTER"
	}
}

func decodeTriggerLevel(tgtype int16) string {
	if tgtype&tgTypeRow != 0 {
		return "ROW"
	}
	return "STATEMENT"
}

func decodeTriggerEvents(tgtype int16) []string {
	var events []string
	if tgtype&tgTypeInsert != 0 {
		events = append(events, "INSERT")
	}
	if tgtype&tgTypeDelete != 0 {
		events = append(events, "DELETE")
	}
	if tgtype&tgTypeUpdate != 0 {
		events = append(events, "UPDATE")
	}
	if tgtype&tgTypeTruncate != 0 {
		events = append(events, "TRUNCATE")
	}
	return events
}

// parseCheckExpression extracts the boolean expression from a
// pg_get_constraintdef rendering like "CHECK ((balance >= 0))" or
// "CHECK (expr) NO INHERIT".
func parseCheckExpression(def string) string {
	s := strings.TrimSpace(def)
	if !strings.HasPrefix(s, "CHECK") {
		return s
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "CHECK"))

	open := strings.Index(s, "(")
	if open < 0 {
		return s
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[open : i+1]
			}
		}
	}
	return s
}

// parseTriggerWhen extracts the WHEN condition from a pg_get_triggerdef
// rendering; the condition sits between " WHEN (" and ") EXECUTE".
// Returns "" for triggers without a condition.
func parseTriggerWhen(def string) string {
	start := strings.Index(def, " WHEN (")
	if start < 0 {
		return ""
	}
	start += len(" WHEN (")
	end := strings.LastIndex(def, ") EXECUTE")
	if end < 0 || end <= start {
		return ""
	}
	return def[start:end]
}
