package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/session"
)

var (
	ErrQuestionRequired   = errors.New("please ask a question")
	ErrInvalidMode        = errors.New("invalid consultation mode")
	ErrInvalidLanguage    = errors.New("invalid response language")
	ErrUnsupportedAudio   = errors.New("audio must be wav or mp3")
	ErrDoctorNameRequired = errors.New("doctor name is required")
)

var ConsultationModes = []string{"General Health", "Medicine Info", "Nutrition & Diet", "Mental Health Support"}

var ResponseLanguages = []string{"en", "hi", "es", "fr"}

var AudioExtensions = []string{".wav", ".mp3"}

// ConsultationService answers typed or spoken questions and records each
// exchange in the caller's session.
type ConsultationService struct {
	gateway      Asker
	transcriber  Transcriber
	synthesizer  Synthesizer
	videoBaseURL string
}

func NewConsultationService(gateway Asker, transcriber Transcriber, synthesizer Synthesizer, videoBaseURL string) *ConsultationService {
	return &ConsultationService{
		gateway:      gateway,
		transcriber:  transcriber,
		synthesizer:  synthesizer,
		videoBaseURL: videoBaseURL,
	}
}

// Ask composes the safety prompt, forwards it and appends the turn to sess.
// Diagnostic answers are recorded too; the page shows whatever came back.
func (s *ConsultationService) Ask(ctx context.Context, sess *session.Session, question, mode, language string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrQuestionRequired
	}
	if mode == "" {
		mode = ConsultationModes[0]
	}
	if !oneOf(mode, ConsultationModes) {
		return Answer{}, ErrInvalidMode
	}
	if language == "" {
		language = ResponseLanguages[0]
	}
	if !oneOf(language, ResponseLanguages) {
		return Answer{}, ErrInvalidLanguage
	}

	answer := s.gateway.Ask(ctx, BuildMedicalPrompt(question, mode), mode, language)
	sess.AppendChatTurn(question, answer.Text)
	return answer, nil
}

// AskVoice transcribes the recording and then behaves like Ask.
func (s *ConsultationService) AskVoice(ctx context.Context, sess *session.Session, audio []byte, fileName, mode, language string) (string, Answer, error) {
	if !HasExtension(fileName, AudioExtensions) {
		return "", Answer{}, ErrUnsupportedAudio
	}
	transcript, err := s.transcriber.Transcribe(ctx, audio, fileName, language)
	if err != nil {
		return "", Answer{}, err
	}
	answer, err := s.Ask(ctx, sess, transcript, mode, language)
	return transcript, answer, err
}

func (s *ConsultationService) Speak(ctx context.Context, text, language string) ([]byte, error) {
	return s.synthesizer.Synthesize(ctx, text, language)
}

// VideoRoom derives the conference room from the doctor's name.
func (s *ConsultationService) VideoRoom(doctor string) (room, roomURL string, err error) {
	doctor = strings.TrimSpace(doctor)
	if doctor == "" {
		return "", "", ErrDoctorNameRequired
	}
	room = strings.ToLower(strings.ReplaceAll(doctor, " ", "_"))
	return room, fmt.Sprintf("%s/%s", strings.TrimRight(s.videoBaseURL, "/"), room), nil
}
