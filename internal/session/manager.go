package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"PortfolioPilot/internal/advisor"
	"PortfolioPilot/internal/intake"
	"PortfolioPilot/internal/market"
	"PortfolioPilot/internal/model"
	"PortfolioPilot/internal/notifier"
	"PortfolioPilot/internal/recorder"

	"github.com/google/uuid"
)

const replyFailed = "Sorry, I could not generate a recommendation right now. Please try again."

const replyHelp = `I build a personal ETF portfolio from a short conversation.

Commands:
/start — begin (or continue) your recommendation
/restart — discard answers and start over
/market — current market snapshot
/feedback <text> — tell us how we did
/help — this message`

// Session is one chat's conversation state. The profile belongs exclusively
// to its session until completion.
type Session struct {
	ID        uuid.UUID
	ChatID    int64
	Profile   model.UserProfile
	Completed bool
	StartedAt time.Time
}

// Manager owns per-chat sessions and routes each inbound message through the
// intake state machine, invoking the allocation engine on completion.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session

	collector   *market.Collector
	cache       *market.Cache
	recorder    recorder.Recorder
	allowedChat int64
	defaultAge  int
	growthRate  float64
	cacheMaxAge time.Duration
}

// NewManager creates a session manager. allowedChat restricts the bot to one
// chat ID; 0 allows any chat.
func NewManager(col *market.Collector, cache *market.Cache, rec recorder.Recorder, allowedChat int64, defaultAge int, growthRate float64) *Manager {
	return &Manager{
		sessions:    make(map[int64]*Session),
		collector:   col,
		cache:       cache,
		recorder:    rec,
		allowedChat: allowedChat,
		defaultAge:  defaultAge,
		growthRate:  growthRate,
		cacheMaxAge: 15 * time.Minute,
	}
}

// HandleMessage processes one inbound chat message and returns the reply.
// This is the notifier.MessageHandler for the polling loop.
func (m *Manager) HandleMessage(chatID int64, text string) string {
	if m.allowedChat != 0 && chatID != m.allowedChat {
		log.Printf("[WARN] ignoring message from unauthorized chat %d", chatID)
		return ""
	}

	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		return m.handleCommand(chatID, text)
	}

	m.mu.Lock()
	s, ok := m.sessions[chatID]
	if !ok {
		s = m.newSessionLocked(chatID)
	}
	profile, completed := s.Profile, s.Completed
	m.mu.Unlock()

	if completed {
		return intake.ReplyAlreadyDone
	}

	newProfile, prompt, terminal := intake.Advance(profile, text)

	if terminal && prompt == "" {
		// Profile just completed: the rendered advice is the terminal prompt.
		reply, err := m.advise(&newProfile)
		if err != nil {
			log.Printf("[ERROR] allocation for session %s: %v", s.ID, err)
			return replyFailed
		}
		m.mu.Lock()
		s.Profile = newProfile
		s.Completed = true
		m.mu.Unlock()
		log.Printf("[INFO] session %s completed", s.ID)
		return reply
	}

	m.mu.Lock()
	s.Profile = newProfile
	m.mu.Unlock()
	return prompt
}

func (m *Manager) handleCommand(chatID int64, text string) string {
	cmd, rest, _ := strings.Cut(text, " ")
	switch cmd {
	case "/start":
		m.mu.Lock()
		s, ok := m.sessions[chatID]
		if !ok || s.Completed {
			s = m.newSessionLocked(chatID)
		}
		pending := intake.PendingField(&s.Profile)
		m.mu.Unlock()
		return "Welcome! Let's put together an investment recommendation.\n\n" + intake.Prompt(pending)
	case "/restart":
		m.mu.Lock()
		m.newSessionLocked(chatID)
		m.mu.Unlock()
		return "Starting over.\n\n" + intake.Prompt(intake.FieldGoal)
	case "/market":
		return notifier.FormatMarketSummary(m.marketContext())
	case "/feedback":
		if strings.TrimSpace(rest) == "" {
			return "Please add your feedback after the command, e.g. /feedback great advice!"
		}
		m.mu.Lock()
		s, ok := m.sessions[chatID]
		m.mu.Unlock()
		sessionID := ""
		if ok {
			sessionID = s.ID.String()
		}
		if err := m.recorder.RecordFeedback(&recorder.FeedbackRecord{
			SessionID: sessionID,
			ChatID:    chatID,
			Text:      strings.TrimSpace(rest),
		}); err != nil {
			log.Printf("[ERROR] record feedback: %v", err)
		}
		return "Thanks, your feedback has been noted. 🙏"
	case "/help":
		return replyHelp
	default:
		return fmt.Sprintf("Unknown command %s. Send /help for the list.", cmd)
	}
}

// advise runs the allocation engine against the freshest market context and
// renders the advice message.
func (m *Manager) advise(p *model.UserProfile) (string, error) {
	mc := m.marketContext()

	in := advisor.FromProfile(p, m.defaultAge)
	in.AnnualGrowthRate = m.growthRate
	amount := p.InvestmentAmount
	if p.InvestmentType == model.InvestMonthly {
		amount = p.MonthlyAmount
	}
	in.Amount = amount

	plan, analysis, err := advisor.Allocate(in, mc)
	if err != nil {
		return "", err
	}
	return notifier.FormatAdvice(p, plan, analysis), nil
}

// marketContext returns the cached snapshot when fresh, otherwise fetches a
// new one. Provider outages degrade inside the collector, never here.
func (m *Manager) marketContext() *model.MarketContext {
	if mc, ok := m.cache.Get(m.cacheMaxAge); ok {
		return mc
	}
	mc := m.collector.BuildContext(context.Background(), advisor.Tickers())
	m.cache.Set(mc)
	return mc
}

// newSessionLocked replaces the chat's session with a fresh one. Caller holds
// the mutex.
func (m *Manager) newSessionLocked(chatID int64) *Session {
	s := &Session{
		ID:        uuid.New(),
		ChatID:    chatID,
		StartedAt: time.Now(),
	}
	m.sessions[chatID] = s
	return s
}
