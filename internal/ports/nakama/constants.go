package nakama

const (
	// RpcFindTable is the Nakama RPC id clients call to find or create a table.
	RpcFindTable = "find_table"

	// RpcTableToken issues signed observe/resume tokens for a table.
	RpcTableToken = "table_token"

	// Profile RPC ids, one per store operation.
	RpcGetProfile    = "get_profile"
	RpcCreateProfile = "create_profile"
	RpcUpdateProfile = "update_profile"
	RpcAddCoins      = "add_coins"

	// MatchNameMindikot is the authoritative match handler name registered with Nakama.
	MatchNameMindikot = "mindikot_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStart        int64 = 1
	OpTurn         int64 = 2
	OpHideCard     int64 = 3
	OpOpenHideCard int64 = 4
	OpNextRound    int64 = 5
	OpLeaveTable   int64 = 6
	OpDistribute   int64 = 7

	// Server -> Client events
	OpPlay            int64 = 101
	OpChooseTrump     int64 = 102
	OpTurnCard        int64 = 103
	OpHideCardEvent   int64 = 104
	OpOpenHideEvent   int64 = 105
	OpRoundComplete   int64 = 106
	OpMindikot        int64 = 107
	OpGameComplete    int64 = 108
	OpAddPlayers      int64 = 109
	OpWaiting         int64 = 110
	OpHandDealt       int64 = 111 // send privately
	OpPlayerJoined    int64 = 112
	OpGameError       int64 = 113
	OpPlayerConnState int64 = 114
)
