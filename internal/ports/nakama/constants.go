package nakama

const (
	// MatchNameMemory is the authoritative match handler name registered with Nakama.
	MatchNameMemory = "memory_match"

	RpcCreateMatch      = "memory_create_match"
	RpcGetStats         = "memory_get_stats"
	RpcResetStats       = "memory_reset_stats"
	RpcGetGarden        = "garden_get"
	RpcWaterPlant       = "garden_water_plant"
	RpcResetGardenDaily = "garden_reset_daily"

	// StorageCollection holds every persisted document of the module.
	StorageCollection = "memory_garden"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame int64 = 1
	OpFlipCard  int64 = 2

	// Server -> Client events
	OpGameStarted    int64 = 101
	OpCardRevealed   int64 = 102
	OpPairMatched    int64 = 103
	OpPairMismatched int64 = 104
	OpTimerTick      int64 = 105
	OpGameWon        int64 = 106
	OpGameLost       int64 = 107
	OpGameError      int64 = 108 // sent only to the player
)

// gRPC status codes used with runtime.NewError.
const (
	codeInvalidArgument = 3
	codeInternal        = 13
	codeUnauthenticated = 16
)
