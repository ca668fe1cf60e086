package store

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	playlist_id TEXT NOT NULL,
	playlist_name TEXT NOT NULL,
	track_count INTEGER NOT NULL,
	skipped_tracks INTEGER NOT NULL DEFAULT 0,
	total_score INTEGER NOT NULL,
	average_score REAL NOT NULL,
	normalized_score REAL NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_playlist ON analyses(playlist_id);
CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
CREATE INDEX IF NOT EXISTS idx_analyses_normalized ON analyses(normalized_score);
`
