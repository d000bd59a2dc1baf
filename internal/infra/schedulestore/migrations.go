package schedulestore

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schedule_entries (
	entity_id  TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	subject    TEXT    NOT NULL,
	day        TEXT    NOT NULL,
	time_range TEXT    NOT NULL,
	PRIMARY KEY (entity_id, position)
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE schedule_entries ADD COLUMN updated_at DATETIME;

CREATE INDEX IF NOT EXISTS idx_schedule_entries_day ON schedule_entries(entity_id, day);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
