package request

// CreateGameRequest is the request body for starting a game
type CreateGameRequest struct {
	TeamName string `json:"team_name"`
}

// PositionRequest is the request body for beginning or extending a selection
type PositionRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// BotRequest is the optional request body for letting the bot play
type BotRequest struct {
	Strategy string `json:"strategy"`
}
