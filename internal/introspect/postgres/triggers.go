package postgres

import (
	"context"

	"github.com/bovinemagnet/pg-console/internal/schema"
)

func (i *introspector) loadTriggers(ctx context.Context, t *schema.Table) error {
	rows, err := i.pool.Query(ctx, `
		SELECT tg.tgname,
		       tg.tgtype,
		       np.nspname,
		       p.proname,
		       pg_get_triggerdef(tg.oid),
		       tg.tgenabled::text
		FROM pg_trigger tg
		JOIN pg_class c ON c.oid = tg.tgrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_proc p ON p.oid = tg.tgfoid
		JOIN pg_namespace np ON np.oid = p.pronamespace
		WHERE n.nspname = $1 AND c.relname = $2 AND NOT tg.tgisinternal
		ORDER BY tg.tgname
	`, t.Schema, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name, funcSchema, funcName, def, enabled string
			tgtype                                   int16
		)
		if err := rows.Scan(&name, &tgtype, &funcSchema, &funcName, &def, &enabled); err != nil {
			return err
		}

		t.Triggers = append(t.Triggers, &schema.Trigger{
			Name:           name,
			Timing:         decodeTriggerTiming(tgtype),
			Events:         decodeTriggerEvents(tgtype),
			Level:          decodeTriggerLevel(tgtype),
			FunctionSchema: funcSchema,
			FunctionName:   funcName,
			When:           parseTriggerWhen(def),
			Enabled:        enabled != "D",
		})
	}
	return rows.Err()
}
