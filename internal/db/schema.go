package db

// Schema contains the SQL statements for the notes database.
// The closed category/priority sets are enforced with CHECK constraints so
// the storage layer rejects bad values even if API validation is bypassed.
const Schema = `
CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    category TEXT NOT NULL CHECK (category IN ('work', 'personal', 'ideas')),
    priority TEXT NOT NULL CHECK (priority IN ('high', 'medium', 'low')),
    description TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at DESC);
`
