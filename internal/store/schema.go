package store

const coreSchema = `
CREATE SEQUENCE IF NOT EXISTS feedback_saves_id_seq START 1;

CREATE TABLE IF NOT EXISTS sessions (
    session_id      VARCHAR PRIMARY KEY,
    feedback_path   VARCHAR NOT NULL,
    last_sentiment  VARCHAR NOT NULL,
    created_at      TIMESTAMP NOT NULL,
    last_saved_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback_saves (
    id           BIGINT DEFAULT nextval('feedback_saves_id_seq') PRIMARY KEY,
    session_id   VARCHAR NOT NULL,
    path         VARCHAR NOT NULL,
    sentiment    VARCHAR NOT NULL,
    entry_count  INTEGER NOT NULL,
    token_count  INTEGER NOT NULL,
    source       VARCHAR,
    saved_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_saves_ts      ON feedback_saves(saved_at);
CREATE INDEX IF NOT EXISTS idx_saves_session ON feedback_saves(session_id);

CREATE TABLE IF NOT EXISTS transcript_offsets (
    transcript_path  VARCHAR PRIMARY KEY,
    last_offset      BIGINT NOT NULL DEFAULT 0
);
`
