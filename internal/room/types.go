package room

// Outbound event names.
const (
	EventRoomCreated          = "roomCreated"
	EventRoomJoined           = "roomJoined"
	EventUserJoined           = "userJoined"
	EventUserLeft             = "userLeft"
	EventReadyStatus          = "readyStatus"
	EventAllReady             = "allReady"
	EventNotEnoughPlayers     = "notEnoughPlayers"
	EventGameReset            = "gameReset"
	EventWordChoices          = "wordChoices"
	EventWordAccepted         = "wordAccepted"
	EventWordSubmitted        = "wordSubmitted"
	EventGuessResult          = "guessResult"
	EventCloseGuess           = "closeGuess"
	EventNewGuess             = "newGuess"
	EventUserGuessedCorrectly = "userGuessedCorrectly"
	EventDrawerChanged        = "drawerChanged"
	EventReceiveMessage       = "receiveMessage"
	EventDrawing              = "drawing"
	EventError                = "errorMessage"
)

type PlayerSummary struct {
	Username string `json:"username"`
	Ready    bool   `json:"ready"`
	Score    int    `json:"score"`
}

// RoomPayload is sent as roomCreated and roomJoined.
type RoomPayload struct {
	RoomCode string          `json:"roomCode"`
	Players  []PlayerSummary `json:"players"`
}

// NoticePayload is sent as userJoined, userLeft and notEnoughPlayers.
type NoticePayload struct {
	Message string          `json:"message"`
	Players []PlayerSummary `json:"players"`
}

type ReadyStatusPayload struct {
	Username string `json:"username"`
	Ready    bool   `json:"ready"`
}

type AllReadyPayload struct {
	Message        string `json:"message"`
	DrawerUsername string `json:"drawerUsername"`
	Round          int    `json:"round"`
}

type GameResetPayload struct {
	Message string `json:"message"`
}

type WordChoicesPayload struct {
	Words []string `json:"words"`
}

type WordAcceptedPayload struct {
	Word string `json:"word"`
}

type WordSubmittedPayload struct {
	Username string `json:"username"`
}

type GuessResultPayload struct {
	Correct bool `json:"correct"`
}

type CloseGuessPayload struct {
	Distance int `json:"distance"`
}

type NewGuessPayload struct {
	Username string `json:"username"`
	Guess    string `json:"guess"`
}

type CorrectGuessPayload struct {
	Username string `json:"username"`
	Word     string `json:"word"`
}

type DrawerChangedPayload struct {
	NewDrawer string `json:"newDrawer"`
	Round     int    `json:"round"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreatedReply answers a createRoom request.
type CreatedReply struct {
	RoomCode string `json:"roomCode"`
}

// LeftReply answers a leaveRoom request once the leave is done.
type LeftReply struct {
	OK bool `json:"ok"`
}

// RoomSnapshot is a point-in-time copy of a room for listings.
type RoomSnapshot struct {
	RoomCode string          `json:"roomCode"`
	Players  []PlayerSummary `json:"players"`
	Phase    Phase           `json:"phase"`
	Drawer   string          `json:"drawer,omitempty"`
	Round    int             `json:"round"`
}
