package app

// BotSessionIDLength is the length of generated session ids for backfilled
// seats, matching the ids real clients present.
const BotSessionIDLength = 9
