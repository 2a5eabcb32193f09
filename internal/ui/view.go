package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pcsweep/pcsweep/internal/core"
	"github.com/pcsweep/pcsweep/internal/scan"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.state {
	case stateIdle:
		b.WriteString(m.renderIdle())
	case stateScanning:
		if m.hashTotal > 0 {
			b.WriteString(fmt.Sprintf("  %s Hashing %d/%d files…", m.spin.View(), m.hashDone, m.hashTotal))
		} else {
			b.WriteString(fmt.Sprintf("  %s Scanning %s…", m.spin.View(), m.kind().Title()))
		}
	case stateList:
		b.WriteString(m.renderList())
	case stateConfirm:
		b.WriteString(m.renderConfirm())
	case stateDeleting:
		b.WriteString(fmt.Sprintf("  %s Deleting…", m.spin.View()))
	case stateReport:
		b.WriteString(m.renderReport())
	}

	if m.err != nil {
		b.WriteString("\n\n  " + styleError.Render("Error: "+m.err.Error()))
	}
	if m.flushNote != "" {
		b.WriteString("\n\n  " + styleWarn.Render(m.flushNote))
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, k := range scan.AllKinds {
		if i == m.tab {
			tabs = append(tabs, styleTabActive.Render(k.Title()))
		} else {
			tabs = append(tabs, styleTab.Render(k.Title()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (m Model) renderIdle() string {
	return "  " + styleMuted.Render("Press enter to scan for "+strings.ToLower(m.kind().Title())+".")
}

func (m Model) renderList() string {
	if len(m.rows) == 0 {
		return "  " + styleOK.Render("Nothing found — this category is clean.")
	}

	var b strings.Builder
	h := m.listHeight()
	end := m.offset + h
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		r := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = styleCursor.Render("> ")
		}
		check := "[ ]"
		if m.selected[i] {
			check = styleSelected.Render("[x]")
		}

		label := r.label
		maxLabel := m.width - 20
		if maxLabel > 10 && len(label) > maxLabel {
			label = "…" + label[len(label)-maxLabel+1:]
		}

		line := fmt.Sprintf("%s%s %s", cursor, check, label)
		if !r.isReg {
			line += styleMuted.Render("  " + core.FormatSize(r.size))
		}
		b.WriteString(line + "\n")
		if r.note != "" && i == m.cursor {
			b.WriteString(styleMuted.Render("       "+r.note) + "\n")
		}
	}

	if end < len(m.rows) {
		b.WriteString(styleMuted.Render(fmt.Sprintf("  … %d more", len(m.rows)-end)) + "\n")
	}

	b.WriteString("\n")
	summary := fmt.Sprintf("  %d items, %s total", len(m.rows), core.FormatSize(m.totalSize))
	if n := m.selectedCount(); n > 0 {
		summary += fmt.Sprintf(" — selected: %d (%s)", n, core.FormatSize(m.selectedSize()))
	}
	if m.warnings > 0 {
		summary += styleWarn.Render(fmt.Sprintf("  (%d skipped)", m.warnings))
	}
	b.WriteString(styleTitle.Render(summary))
	return b.String()
}

func (m Model) renderConfirm() string {
	n := m.selectedCount()
	what := fmt.Sprintf("%d items (%s)", n, core.FormatSize(m.selectedSize()))
	if m.kind() == scan.KindRegistry {
		what = fmt.Sprintf("%d registry entries", n)
		if m.settings.RegistryBackup {
			what += " (a backup will be written first)"
		}
	}
	return "  " + styleWarn.Render("Delete "+what+"? This cannot be undone.") +
		"\n\n  " + styleHelp.Render("y/enter confirm · n/esc cancel")
}

func (m Model) renderReport() string {
	if m.report == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("  " + styleOK.Render(fmt.Sprintf("Removed %d of %d", m.report.Succeeded, m.report.Attempted)))
	if m.report.FreedSize > 0 {
		b.WriteString(styleOK.Render(" — freed " + core.FormatSize(m.report.FreedSize)))
	}
	b.WriteString("\n")

	if m.backup != nil {
		b.WriteString("  " + styleMuted.Render("Backup written to "+m.backup.Path) + "\n")
	}

	if m.report.Failed > 0 {
		b.WriteString("\n  " + styleError.Render(fmt.Sprintf("%d failed:", m.report.Failed)) + "\n")
		max := 8
		for i, f := range m.report.Failures {
			if i >= max {
				b.WriteString(styleMuted.Render(fmt.Sprintf("    … and %d more", len(m.report.Failures)-max)) + "\n")
				break
			}
			b.WriteString(fmt.Sprintf("    %s — %s\n", f.Path, styleError.Render(f.Reason)))
		}
	}

	return b.String()
}

func (m Model) renderHelp() string {
	var keys string
	switch m.state {
	case stateList:
		keys = "↑/↓ move · space select · a all · d delete · enter rescan · ←/→ tool · f flush dns · q quit"
	case stateScanning, stateDeleting:
		keys = "esc cancel · q quit"
	case stateConfirm:
		keys = "y confirm · n cancel"
	default:
		keys = "enter scan · ←/→ tool · f flush dns · q quit"
	}
	return "  " + styleHelp.Render(keys)
}
