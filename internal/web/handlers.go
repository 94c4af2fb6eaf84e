package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dyike/mentorchat/internal/chat"
	"github.com/dyike/mentorchat/internal/storage"
	"github.com/dyike/mentorchat/models"
)

type pageData struct {
	Title     string
	SessionID string
	Messages  []models.Turn
	Notice    string
}

func (s *Server) Index(c *gin.Context) {
	clientID, mgr := s.client(c)
	data := pageData{
		Title:     PageTitle,
		SessionID: mgr.Current(),
		Notice:    s.popNotice(clientID),
	}

	turns, err := s.svc.Transcript(c.Request.Context(), mgr)
	if err != nil {
		log.Printf("[Server.Index] client=%s load transcript: %v", clientID, err)
		data.Notice = userMessage(err)
	}
	data.Messages = turns

	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) SubmitForm(c *gin.Context) {
	clientID, mgr := s.client(c)

	var params models.ChatParams
	if err := c.ShouldBind(&params); err != nil {
		s.setNotice(clientID, "Could not read the question.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if s.debug {
		log.Printf("[Server.SubmitForm] client=%s question_len=%d", clientID, len(params.Question))
	}

	if _, err := s.svc.Submit(c.Request.Context(), mgr, params.Question); err != nil {
		log.Printf("[Server.SubmitForm] client=%s session=%s: %v", clientID, mgr.Current(), err)
		s.setNotice(clientID, userMessage(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) NewChat(c *gin.Context) {
	clientID, mgr := s.client(c)
	id := mgr.Reset()
	s.popNotice(clientID)
	log.Printf("[Server.NewChat] client=%s session=%s", clientID, id)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) APIChat(c *gin.Context) {
	clientID, mgr := s.client(c)

	var params models.ChatParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResult{Error: "invalid request body"})
		return
	}
	if s.debug {
		log.Printf("[Server.APIChat] client=%s question_len=%d", clientID, len(params.Question))
	}

	sessionID := mgr.Current()
	reply, err := s.svc.Submit(c.Request.Context(), mgr, params.Question)
	if err != nil {
		log.Printf("[Server.APIChat] client=%s session=%s: %v", clientID, sessionID, err)
		c.JSON(statusFor(err), models.ErrorResult{Error: userMessage(err)})
		return
	}
	c.JSON(http.StatusOK, models.ChatResult{SessionID: sessionID, Reply: reply})
}

func (s *Server) APIHistory(c *gin.Context) {
	clientID, mgr := s.client(c)

	turns, err := s.svc.Transcript(c.Request.Context(), mgr)
	if err != nil {
		log.Printf("[Server.APIHistory] client=%s: %v", clientID, err)
		c.JSON(statusFor(err), models.ErrorResult{Error: userMessage(err)})
		return
	}
	c.JSON(http.StatusOK, models.HistoryResult{SessionID: mgr.Current(), Messages: turns})
}

func (s *Server) APIReset(c *gin.Context) {
	clientID, mgr := s.client(c)
	id := mgr.Reset()
	log.Printf("[Server.APIReset] client=%s session=%s", clientID, id)
	c.JSON(http.StatusOK, models.SessionResult{SessionID: id})
}

func statusFor(err error) int {
	var ue *chat.UpstreamError
	var se *storage.StorageError
	switch {
	case errors.Is(err, chat.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.As(err, &ue):
		if ue.Timeout() {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.As(err, &se):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the text shown to the user in place of a reply.
func userMessage(err error) string {
	var ue *chat.UpstreamError
	var se *storage.StorageError
	switch {
	case errors.Is(err, chat.ErrEmptyQuestion):
		return "Please type a question first."
	case errors.As(err, &ue):
		if ue.Timeout() {
			return "The mentor took too long to answer. Your question was saved, please try again."
		}
		return "The mentor could not be reached. Your question was saved, please try again."
	case errors.As(err, &se):
		return "The conversation log is unavailable right now."
	default:
		return "Something went wrong, please try again."
	}
}
