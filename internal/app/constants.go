package app

// DefaultRecentLimit is how many recent records are returned when a caller does not ask
// for a specific number.
const DefaultRecentLimit = 5
