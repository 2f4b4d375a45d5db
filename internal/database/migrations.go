package database

const schema = `
CREATE TABLE IF NOT EXISTS images (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uri TEXT NOT NULL UNIQUE,
    thumbnail_uri TEXT NOT NULL,
    title TEXT NOT NULL UNIQUE,
    position TEXT NOT NULL DEFAULT '',
    time TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    blurhash TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_images_updated_at ON images (updated_at);

CREATE TABLE IF NOT EXISTS accounts (
    username TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
`
