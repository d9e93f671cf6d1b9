package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/services"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/session"
	"github.com/gofiber/fiber/v2"
)

type ConsultationHandler struct {
	consultations *services.ConsultationService
}

func NewConsultationHandler(consultations *services.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{consultations: consultations}
}

func (h *ConsultationHandler) Options(c *fiber.Ctx) error {
	return c.JSON(dto.ConsultOptionsResponse{
		Modes:     services.ConsultationModes,
		Languages: services.ResponseLanguages,
	})
}

func (h *ConsultationHandler) Ask(c *fiber.Ctx) error {
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	answer, err := h.consultations.Ask(c.UserContext(), middleware.GetSession(c), req.Question, req.Mode, req.Language)
	if err != nil {
		return consultError(c, err)
	}
	return c.JSON(askResponse(req.Question, answer))
}

// Voice accepts a wav/mp3 recording in the "audio" field.
func (h *ConsultationHandler) Voice(c *fiber.Ctx) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Audio file is required",
		})
	}
	audio, err := readUpload(fh)
	if err != nil {
		slog.Error("audio upload read failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Could not read uploaded audio",
		})
	}

	transcript, answer, err := h.consultations.AskVoice(c.UserContext(), middleware.GetSession(c),
		audio, fh.Filename, c.FormValue("mode"), c.FormValue("language"))
	if err != nil {
		return consultError(c, err)
	}
	return c.JSON(dto.VoiceAskResponse{
		Transcript:  transcript,
		AskResponse: askResponse(transcript, answer),
	})
}

func (h *ConsultationHandler) Speak(c *fiber.Ctx) error {
	var req dto.SpeakRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	audio, err := h.consultations.Speak(c.UserContext(), req.Text, req.Language)
	if err != nil {
		return consultError(c, err)
	}
	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.Send(audio)
}

func (h *ConsultationHandler) History(c *fiber.Ctx) error {
	sess := middleware.GetSession(c)
	turns := sess.RecentTurns()
	if turns == nil {
		turns = []session.ChatTurn{}
	}
	return c.JSON(dto.HistoryResponse{Turns: turns, Total: len(sess.History)})
}

func (h *ConsultationHandler) ClearHistory(c *fiber.Ctx) error {
	middleware.GetSession(c).ClearHistory()
	return c.JSON(dto.MessageResponse{Message: "History cleared"})
}

func (h *ConsultationHandler) Video(c *fiber.Ctx) error {
	room, url, err := h.consultations.VideoRoom(c.Query("doctor"))
	if err != nil {
		return consultError(c, err)
	}
	return c.JSON(dto.VideoRoomResponse{Room: room, URL: url})
}

// AnalyzeImage accepts a jpg/png in the "image" field and reports its size.
func (h *ConsultationHandler) AnalyzeImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Image file is required",
		})
	}
	data, err := readUpload(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Could not read uploaded image",
		})
	}

	resp, err := services.AnalyzeImage(data, fh.Filename)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedImage) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(resp)
}

func askResponse(question string, answer services.Answer) dto.AskResponse {
	return dto.AskResponse{
		Question:   question,
		Answer:     answer.Text,
		OK:         answer.OK,
		Diagnostic: answer.Diagnostic,
	}
}

func consultError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrQuestionRequired),
		errors.Is(err, services.ErrInvalidMode),
		errors.Is(err, services.ErrInvalidLanguage),
		errors.Is(err, services.ErrDoctorNameRequired),
		errors.Is(err, services.ErrEmptySpeechText):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrUnsupportedAudio):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNoSpeech):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: "Could not transcribe audio.",
		})
	case errors.Is(err, services.ErrSpeechUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	slog.Warn("speech service call failed", "error", err)
	return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
		Error: true, Message: "Speech service failed in this environment.",
	})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
