package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-workout-keeper/internal/service"
	"github.com/MKhiriev/go-workout-keeper/models"
)

const (
	maxListedRecords = 200
	statusLineTTL    = 3 * time.Second
)

// dashboardModel shows the sync banner and the not yet delivered mutations.
type dashboardModel struct {
	ctx       context.Context
	records   RecordLister
	mutations service.ClientMutationService
	auth      service.ClientAuthService
	syncer    Syncer

	build         models.AppBuildInfo
	serverAddress string

	snapshot models.SyncStatusSnapshot
	spin     syncModel
	table    table.Model
	help     help.Model
	items    []models.MutationRecord

	login      *loginModel
	overlay    *errorOverlayModel
	showInfo   bool
	statusLine string
}

func newDashboardModel(ctx context.Context, t *TUI) dashboardModel {
	columns := []table.Column{
		{Title: "Статус", Width: 10},
		{Title: "Сущность", Width: 16},
		{Title: "Операция", Width: 9},
		{Title: "Попытки", Width: 8},
		{Title: "След. попытка", Width: 14},
		{Title: "Ошибка", Width: 36},
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return dashboardModel{
		ctx:           ctx,
		records:       t.records,
		mutations:     t.mutations,
		auth:          t.auth,
		syncer:        t.syncer,
		build:         t.build,
		serverAddress: t.serverAddress,
		snapshot:      t.status.Snapshot(),
		spin:          newSyncModel(),
		table:         tbl,
		help:          help.New(),
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.cmdLoadRecords(), m.spin.spinner.Tick)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if h := msg.Height - 10; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil
	case snapshotMsg:
		m.snapshot = msg.snapshot
		m.spin.running = msg.snapshot.EngineState == models.EngineDraining
		return m, m.cmdLoadRecords()
	case recordsLoadedMsg:
		if msg.err != nil {
			m.overlay = &errorOverlayModel{message: humanizeError(msg.err)}
			return m, nil
		}
		m.items = msg.records
		m.table.SetRows(recordRows(msg.records, time.Now()))
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.overlay = &errorOverlayModel{message: humanizeError(msg.err)}
			return m, m.cmdLoadRecords()
		}
		m.statusLine = msg.status
		return m, tea.Batch(m.cmdLoadRecords(), clearStatusAfter(statusLineTTL))
	case clearStatusMsg:
		m.statusLine = ""
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin.spinner, cmd = m.spin.spinner.Update(msg)
		return m, cmd
	case loginResultMsg:
		if m.login == nil {
			return m, nil
		}
		cmd, done := m.login.Update(msg)
		if done {
			m.login = nil
			m.statusLine = "Вход выполнен"
			return m, tea.Batch(cmd, clearStatusAfter(statusLineTTL))
		}
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.overlay != nil {
		if key.Matches(msg, keys.enter, keys.esc) {
			m.overlay = nil
		}
		return m, nil
	}

	if m.login != nil {
		cmd, done := m.login.Update(msg)
		if done {
			m.login = nil
		}
		return m, cmd
	}

	if m.showInfo {
		if key.Matches(msg, keys.esc, keys.info) {
			m.showInfo = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.sync):
		m.syncer.Trigger()
		m.statusLine = "Синхронизация запрошена"
		return m, clearStatusAfter(statusLineTTL)
	case key.Matches(msg, keys.retry):
		record, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.cmdRetry(record.ClientID)
	case key.Matches(msg, keys.retryAll):
		return m, m.cmdRetryFailed()
	case key.Matches(msg, keys.discard):
		record, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.cmdDiscard(record.ClientID)
	case key.Matches(msg, keys.login):
		m.login = newLoginModel(m.ctx, m.auth)
		return m, nil
	case key.Matches(msg, keys.info):
		m.showInfo = true
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) View() string {
	var b strings.Builder
	b.WriteString(renderBanner(m.snapshot, m.spin))
	b.WriteString("\n\n")

	switch {
	case m.overlay != nil:
		b.WriteString(m.overlay.View())
	case m.login != nil:
		b.WriteString(m.login.View())
	case m.showInfo:
		b.WriteString(renderBuildInfoWindow(m.build, m.serverAddress))
	case len(m.items) == 0:
		b.WriteString("Нет неотправленных изменений\n\n")
		b.WriteString(helpStyle.Render(m.help.View(keys)))
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(m.help.View(keys)))
	}

	if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(m.statusLine)
	}

	return appStyle.Render(b.String())
}

func (m dashboardModel) selected() (models.MutationRecord, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return models.MutationRecord{}, false
	}
	return m.items[idx], true
}

func (m dashboardModel) cmdLoadRecords() tea.Cmd {
	ctx := m.ctx
	records := m.records

	return func() tea.Msg {
		var list []models.MutationRecord
		for record, err := range records.ListByStatus(ctx, models.StatusPending, models.StatusInFlight, models.StatusFailed) {
			if err != nil {
				return recordsLoadedMsg{err: err}
			}
			list = append(list, record)
			if len(list) == maxListedRecords {
				break
			}
		}
		return recordsLoadedMsg{records: list}
	}
}

func (m dashboardModel) cmdRetry(clientID string) tea.Cmd {
	ctx := m.ctx
	mutations := m.mutations

	return func() tea.Msg {
		if err := mutations.Retry(ctx, clientID); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "Изменение возвращено в очередь"}
	}
}

func (m dashboardModel) cmdRetryFailed() tea.Cmd {
	ctx := m.ctx
	mutations := m.mutations

	return func() tea.Msg {
		n, err := mutations.RetryFailed(ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("Возвращено в очередь: %d", n)}
	}
}

func (m dashboardModel) cmdDiscard(clientID string) tea.Cmd {
	ctx := m.ctx
	mutations := m.mutations

	return func() tea.Msg {
		if err := mutations.Discard(ctx, clientID); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "Изменение отменено"}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func recordRows(records []models.MutationRecord, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		next := "-"
		if r.NextAttemptAt != nil {
			if wait := r.NextAttemptAt.Sub(now); wait > 0 {
				next = "через " + wait.Round(time.Second).String()
			} else {
				next = "сейчас"
			}
		}

		lastError := "-"
		if r.LastError != "" {
			lastError = fitText(string(r.LastErrorClass)+": "+r.LastError, 36)
		}

		rows = append(rows, table.Row{
			string(r.Status),
			fitText(string(r.EntityType)+"/"+r.EntityID, 16),
			string(r.Operation),
			fmt.Sprint(r.Attempt),
			next,
			lastError,
		})
	}
	return rows
}
