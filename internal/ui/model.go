// Package ui implements the interactive tabbed interface. One tab per tool;
// scans and deletions run as bubbletea commands off the render loop, with
// results delivered back as messages. Only one operation can be in flight
// at a time — the key handlers refuse to start another while busy.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pcsweep/pcsweep/internal/config"
	"github.com/pcsweep/pcsweep/internal/dupes"
	"github.com/pcsweep/pcsweep/internal/netflush"
	"github.com/pcsweep/pcsweep/internal/oplog"
	"github.com/pcsweep/pcsweep/internal/scan"
	"github.com/pcsweep/pcsweep/internal/sweep"
	"github.com/pcsweep/pcsweep/internal/winreg"
)

// ─── States ──────────────────────────────────────────────────────────────────

type state int

const (
	stateIdle state = iota
	stateScanning
	stateList
	stateConfirm
	stateDeleting
	stateReport
)

// ─── Messages ────────────────────────────────────────────────────────────────

type scanDoneMsg struct {
	kind   scan.Kind
	result *scan.Result
	err    error
}

type dupesDoneMsg struct {
	report *dupes.Report
	err    error
}

type dupesProgressMsg struct {
	done  int
	total int
}

type auditDoneMsg struct {
	report *winreg.AuditReport
}

type deleteDoneMsg struct {
	report *sweep.Report
	backup *winreg.BackupRecord
	err    error
}

type flushDoneMsg struct {
	result netflush.Result
}

// ─── Rows ────────────────────────────────────────────────────────────────────

// row is one display line. Exactly one of item/finding is meaningful.
type row struct {
	label   string
	note    string
	size    int64
	item    scan.Item
	finding *winreg.Finding
	isReg   bool
}

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the top-level bubbletea model.
type Model struct {
	settings config.Settings
	log      *oplog.Logger

	tab    int // index into scan.AllKinds
	state  state
	width  int
	height int

	spin spinner.Model

	rows      []row
	totalSize int64
	warnings  int
	selected  map[int]bool
	cursor    int
	offset    int

	report    *sweep.Report
	backup    *winreg.BackupRecord
	flushNote string
	err       error

	hashDone  int
	hashTotal int
	dupesCh   chan dupesProgressMsg

	cancel   context.CancelFunc
	quitting bool
}

// New builds the interactive model.
func New(settings config.Settings, log *oplog.Logger) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(clrAccent)

	return Model{
		settings: settings,
		log:      log,
		spin:     sp,
		selected: make(map[int]bool),
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m Model) kind() scan.Kind {
	return scan.AllKinds[m.tab]
}

// ─── Commands ────────────────────────────────────────────────────────────────

func (m *Model) startScan() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.state = stateScanning
	m.err = nil
	m.flushNote = ""

	kind := m.kind()
	settings := m.settings
	log := m.log

	switch kind {
	case scan.KindDuplicates:
		ch := make(chan dupesProgressMsg, 16)
		m.dupesCh = ch
		m.hashDone, m.hashTotal = 0, 0
		detect := func() tea.Msg {
			d := &dupes.Detector{
				Roots:   config.DuplicateRoots(),
				MinSize: 1024,
				Progress: func(done, total int, path string) {
					select {
					case ch <- dupesProgressMsg{done: done, total: total}:
					default:
					}
				},
			}
			report, err := d.Detect(ctx)
			close(ch)
			return dupesDoneMsg{report: report, err: err}
		}
		return tea.Batch(detect, listenProgress(ch))
	case scan.KindRegistry:
		return func() tea.Msg {
			var a winreg.Auditor
			report := a.Audit(ctx)
			log.Event("registry audit finished: %d findings", len(report.Findings))
			return auditDoneMsg{report: report}
		}
	default:
		return func() tea.Msg {
			tool, err := scan.ToolFor(kind, settings)
			if err != nil {
				return scanDoneMsg{kind: kind, err: err}
			}
			log.Event("scan started: %s", kind)
			result, err := tool.Scan(ctx)
			if result != nil {
				log.Event("scan finished: %s — %d items, %d bytes, %d skipped",
					kind, len(result.Items), result.TotalSize, result.Skipped)
			}
			return scanDoneMsg{kind: kind, result: result, err: err}
		}
	}
}

func (m *Model) startDelete() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.state = stateDeleting

	log := m.log
	settings := m.settings

	if m.kind() == scan.KindRegistry {
		var findings []winreg.Finding
		for i, r := range m.rows {
			if m.selected[i] && r.finding != nil {
				findings = append(findings, *r.finding)
			}
		}
		return func() tea.Msg {
			var backup *winreg.BackupRecord
			if settings.RegistryBackup {
				var err error
				backup, err = winreg.WriteBackup(config.BackupDir(), findings, log)
				if err != nil {
					// Fail closed: no backup, no deletion.
					return deleteDoneMsg{err: err}
				}
			}
			report := winreg.CleanFindings(ctx, findings, false, log)
			return deleteDoneMsg{report: report, backup: backup}
		}
	}

	var items []scan.Item
	for i, r := range m.rows {
		if m.selected[i] && !r.isReg {
			items = append(items, r.item)
		}
	}
	return func() tea.Msg {
		ex := &sweep.Executor{Guard: config.NeverDeletePaths(), Log: log}
		report := ex.DeleteFiles(ctx, items)
		return deleteDoneMsg{report: report}
	}
}

// listenProgress waits for the next hashing progress update. The channel is
// closed when detection finishes; the resulting nil message is discarded.
func listenProgress(ch chan dupesProgressMsg) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return p
	}
}

func flushDNS() tea.Cmd {
	return func() tea.Msg {
		return flushDoneMsg{result: netflush.Flush(context.Background())}
	}
}

// ─── Update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case scanDoneMsg:
		m.cancel = nil
		if msg.err != nil && msg.err != context.Canceled {
			m.err = msg.err
		}
		m.rows = nil
		m.totalSize = 0
		m.warnings = 0
		if msg.result != nil {
			for _, it := range msg.result.Items {
				m.rows = append(m.rows, row{label: it.Path, size: it.Size, item: it})
			}
			m.totalSize = msg.result.TotalSize
			m.warnings = msg.result.Skipped
		}
		m.resetSelection()
		m.state = stateList
		return m, nil

	case dupesProgressMsg:
		if m.state != stateScanning || m.dupesCh == nil {
			return m, nil
		}
		m.hashDone, m.hashTotal = msg.done, msg.total
		return m, listenProgress(m.dupesCh)

	case dupesDoneMsg:
		m.cancel = nil
		m.dupesCh = nil
		m.hashDone, m.hashTotal = 0, 0
		if msg.err != nil && msg.err != context.Canceled {
			m.err = msg.err
		}
		m.rows = nil
		m.totalSize = 0
		m.warnings = 0
		if msg.report != nil {
			for _, g := range msg.report.Groups {
				for _, it := range g.Redundant() {
					m.rows = append(m.rows, row{
						label: it.Path,
						note:  "duplicate of " + g.Keep().Path,
						size:  it.Size,
						item:  it,
					})
					m.totalSize += it.Size
				}
			}
			m.warnings = len(msg.report.Warnings)
		}
		m.resetSelection()
		m.state = stateList
		return m, nil

	case auditDoneMsg:
		m.cancel = nil
		m.rows = nil
		m.totalSize = 0
		m.warnings = len(msg.report.Warnings)
		for i := range msg.report.Findings {
			f := msg.report.Findings[i]
			m.rows = append(m.rows, row{
				label:   f.DisplayPath(),
				note:    f.Reason,
				finding: &f,
				isReg:   true,
			})
		}
		m.resetSelection()
		m.state = stateList
		return m, nil

	case deleteDoneMsg:
		m.cancel = nil
		if msg.err != nil {
			m.err = msg.err
			m.state = stateList
			return m, nil
		}
		m.report = msg.report
		m.backup = msg.backup
		m.state = stateReport
		return m, nil

	case flushDoneMsg:
		if msg.result.OK {
			m.flushNote = "DNS cache flushed"
			m.log.Event("dns flush succeeded")
		} else {
			m.flushNote = "DNS flush failed: " + msg.result.Reason
			m.log.Event("dns flush failed: %s", msg.result.Reason)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	busy := m.state == stateScanning || m.state == stateDeleting

	switch msg.String() {
	case "ctrl+c", "q":
		if m.cancel != nil {
			m.cancel()
		}
		m.quitting = true
		return m, tea.Quit

	case "esc":
		switch m.state {
		case stateScanning, stateDeleting:
			// Cancellation is honored between items.
			if m.cancel != nil {
				m.cancel()
			}
		case stateConfirm:
			m.state = stateList
		case stateReport:
			m.state = stateIdle
		}
		return m, nil

	case "left", "shift+tab":
		if !busy {
			m.tab = (m.tab + len(scan.AllKinds) - 1) % len(scan.AllKinds)
			m.toIdle()
		}
		return m, nil

	case "right", "tab":
		if !busy {
			m.tab = (m.tab + 1) % len(scan.AllKinds)
			m.toIdle()
		}
		return m, nil

	case "enter", "s":
		switch m.state {
		case stateIdle, stateList, stateReport:
			return m, m.startScan()
		case stateConfirm:
			return m, m.startDelete()
		}
		return m, nil

	case "y":
		if m.state == stateConfirm {
			return m, m.startDelete()
		}
		return m, nil

	case "n":
		if m.state == stateConfirm {
			m.state = stateList
		}
		return m, nil

	case "up", "k":
		if m.state == stateList && m.cursor > 0 {
			m.cursor--
			m.clampOffset()
		}
		return m, nil

	case "down", "j":
		if m.state == stateList && m.cursor < len(m.rows)-1 {
			m.cursor++
			m.clampOffset()
		}
		return m, nil

	case " ":
		if m.state == stateList && len(m.rows) > 0 {
			m.selected[m.cursor] = !m.selected[m.cursor]
		}
		return m, nil

	case "a":
		if m.state == stateList && len(m.rows) > 0 {
			all := m.selectedCount() == len(m.rows)
			for i := range m.rows {
				m.selected[i] = !all
			}
		}
		return m, nil

	case "d":
		if m.state == stateList && m.selectedCount() > 0 {
			m.state = stateConfirm
		}
		return m, nil

	case "f":
		if !busy {
			return m, flushDNS()
		}
		return m, nil
	}

	return m, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (m *Model) toIdle() {
	m.state = stateIdle
	m.rows = nil
	m.totalSize = 0
	m.warnings = 0
	m.report = nil
	m.backup = nil
	m.err = nil
	m.hashDone, m.hashTotal = 0, 0
	m.dupesCh = nil
	m.resetSelection()
}

func (m *Model) resetSelection() {
	m.selected = make(map[int]bool)
	m.cursor = 0
	m.offset = 0
}

func (m *Model) selectedCount() int {
	n := 0
	for i := range m.rows {
		if m.selected[i] {
			n++
		}
	}
	return n
}

func (m *Model) selectedSize() int64 {
	var total int64
	for i, r := range m.rows {
		if m.selected[i] {
			total += r.size
		}
	}
	return total
}

func (m *Model) listHeight() int {
	h := m.height - 9
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) clampOffset() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}
