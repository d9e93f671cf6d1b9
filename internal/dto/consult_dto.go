package dto

import "github.com/ahmetcoskunkizilkaya/healthdesk/internal/session"

type AskRequest struct {
	Question string `json:"question"`
	Mode     string `json:"mode"`
	Language string `json:"language"`
}

type AskResponse struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	OK         bool   `json:"ok"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// VoiceAskResponse adds the transcript of the uploaded recording.
type VoiceAskResponse struct {
	Transcript string `json:"transcript"`
	AskResponse
}

type SpeakRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type HistoryResponse struct {
	Turns []session.ChatTurn `json:"turns"`
	Total int                `json:"total"`
}

type ConsultOptionsResponse struct {
	Modes     []string `json:"modes"`
	Languages []string `json:"languages"`
}

type VideoRoomResponse struct {
	Room string `json:"room"`
	URL  string `json:"url"`
}

type ImageAnalysisResponse struct {
	FileName string `json:"file_name"`
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Message  string `json:"message"`
}
