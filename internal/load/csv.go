// Package load reads the simulation input graph from CSV files: accounts,
// static transaction edges, normal behavior models and alert membership.
// Columns are resolved by header name, so column order does not matter.
package load

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/synthaml/amlsim/internal/logging"
	"github.com/synthaml/amlsim/internal/sim"
)

// Loader reads the input CSV files into a simulation.
type Loader struct {
	Log   *slog.Logger
	Audit *logging.AuditLogger
}

// header maps column names to their index.
type header map[string]int

func readHeader(r *csv.Reader, path string) (header, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	h := make(header, len(row))
	for i, name := range row {
		h[strings.TrimSpace(name)] = i
	}
	return h, nil
}

func (h header) col(row []string, name string) (string, error) {
	i, ok := h[name]
	if !ok {
		return "", fmt.Errorf("missing column %q", name)
	}
	if i >= len(row) {
		return "", fmt.Errorf("row too short for column %q", name)
	}
	return strings.TrimSpace(row[i]), nil
}

func (h header) floatCol(row []string, name string) (float64, error) {
	s, err := h.col(row, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return v, nil
}

func (h header) intCol(row []string, name string) (int64, error) {
	s, err := h.col(row, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return v, nil
}

func (h header) boolCol(row []string, name string) (bool, error) {
	s, err := h.col(row, name)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(s, "true") || s == "1", nil
}

// forEachRow streams the data rows of a CSV file, reporting errors with the
// file path and line number.
func forEachRow(path string, fn func(h header, row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	h, err := readHeader(r, path)
	if err != nil {
		return err
	}
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		line++
		if err := fn(h, row); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
}

// Accounts loads the account list. Expected columns: ACCOUNT_ID, IS_SAR,
// INIT_BALANCE, BANK_ID; optional START_STEP and END_STEP restrict the
// account's active window.
func (l *Loader) Accounts(path string, s *sim.Simulation) error {
	count := 0
	err := forEachRow(path, func(h header, row []string) error {
		id, err := h.col(row, "ACCOUNT_ID")
		if err != nil {
			return err
		}
		isSAR, err := h.boolCol(row, "IS_SAR")
		if err != nil {
			return err
		}
		balance, err := h.floatCol(row, "INIT_BALANCE")
		if err != nil {
			return err
		}
		bankID, err := h.col(row, "BANK_ID")
		if err != nil {
			return err
		}

		start, end := int64(-1), int64(-1)
		if _, ok := h["START_STEP"]; ok {
			if start, err = h.intCol(row, "START_STEP"); err != nil {
				return err
			}
		}
		if _, ok := h["END_STEP"]; ok {
			if end, err = h.intCol(row, "END_STEP"); err != nil {
				return err
			}
		}
		if start >= 0 && end > 0 && start > end {
			return fmt.Errorf("account %s: start step %d after end step %d", id, start, end)
		}

		count++
		return s.AddAccount(sim.NewAccount(s.Context(), id, isSAR, balance, bankID, start, end))
	})
	if err != nil {
		return err
	}
	l.Log.Info("loaded accounts", "file", path, "count", count)
	return nil
}

// Edges loads the static transaction graph. Expected columns: src, dst,
// ttype. Each row adds a beneficiary edge and labels it with the transaction
// type.
func (l *Loader) Edges(path string, s *sim.Simulation) error {
	count := 0
	err := forEachRow(path, func(h header, row []string) error {
		srcID, err := h.col(row, "src")
		if err != nil {
			return err
		}
		dstID, err := h.col(row, "dst")
		if err != nil {
			return err
		}
		ttype, err := h.col(row, "ttype")
		if err != nil {
			return err
		}

		src, ok := s.Account(srcID)
		if !ok {
			return fmt.Errorf("unknown source account: %s", srcID)
		}
		dst, ok := s.Account(dstID)
		if !ok {
			return fmt.Errorf("unknown destination account: %s", dstID)
		}
		src.AddBeneficiary(dst)
		src.AddTxType(dst, ttype)
		count++
		return nil
	})
	if err != nil {
		return err
	}
	l.Log.Info("loaded transaction edges", "file", path, "count", count)
	return nil
}

// NormalModels loads the normal behavior groups. Expected columns: type,
// accountID, modelID, isMain. Rows sharing a modelID form one group; the
// first row's type selects the behavior model, and the row with isMain set
// designates the triggering account.
func (l *Loader) NormalModels(path string, s *sim.Simulation) error {
	count := 0
	err := forEachRow(path, func(h header, row []string) error {
		kind, err := h.col(row, "type")
		if err != nil {
			return err
		}
		acctID, err := h.col(row, "accountID")
		if err != nil {
			return err
		}
		groupID, err := h.intCol(row, "modelID")
		if err != nil {
			return err
		}
		isMain, err := h.boolCol(row, "isMain")
		if err != nil {
			return err
		}

		acct, ok := s.Account(acctID)
		if !ok {
			return fmt.Errorf("unknown account: %s", acctID)
		}

		group, ok := s.Group(groupID)
		if !ok {
			group = sim.NewAccountGroup(groupID)
			ctx := s.Context()
			group.SetModel(sim.NewNormalModel(ctx, kind, group, int64(ctx.TxInterval), -1, -1))
			if err := s.AddGroup(group); err != nil {
				return err
			}
		}
		group.AddMember(acct)
		if isMain {
			group.SetMainAccount(acct)
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}
	l.Log.Info("loaded normal models", "file", path, "groups", len(s.Groups()), "members", count)
	return nil
}

// AlertMembers loads the alert groups and their typology models. Expected
// columns: alertID, accountID, isMain, isSAR, modelID, minAmount, maxAmount,
// startStep, endStep, scheduleID. Repeated alertIDs widen the amount bounds
// and the step window; after the last row each alert's schedule is built
// exactly once.
func (l *Loader) AlertMembers(path string, s *sim.Simulation) error {
	schedules := make(map[int64]int)
	count := 0
	err := forEachRow(path, func(h header, row []string) error {
		alertID, err := h.intCol(row, "alertID")
		if err != nil {
			return err
		}
		acctID, err := h.col(row, "accountID")
		if err != nil {
			return err
		}
		isMain, err := h.boolCol(row, "isMain")
		if err != nil {
			return err
		}
		isSAR, err := h.boolCol(row, "isSAR")
		if err != nil {
			return err
		}
		modelID, err := h.intCol(row, "modelID")
		if err != nil {
			return err
		}
		minAmount, err := h.floatCol(row, "minAmount")
		if err != nil {
			return err
		}
		maxAmount, err := h.floatCol(row, "maxAmount")
		if err != nil {
			return err
		}
		startStep, err := h.intCol(row, "startStep")
		if err != nil {
			return err
		}
		endStep, err := h.intCol(row, "endStep")
		if err != nil {
			return err
		}
		scheduleID, err := h.intCol(row, "scheduleID")
		if err != nil {
			return err
		}

		if minAmount > maxAmount {
			return fmt.Errorf("alert %d: min amount %f exceeds max amount %f", alertID, minAmount, maxAmount)
		}
		if startStep > endStep {
			return fmt.Errorf("alert %d: start step %d after end step %d", alertID, startStep, endStep)
		}

		acct, ok := s.Account(acctID)
		if !ok {
			return fmt.Errorf("unknown account: %s", acctID)
		}
		if acct.IsSAR() != isSAR {
			l.Log.Warn("alert member SAR flag overrides account",
				"alert", alertID, "account", acctID, "member_sar", isSAR, "account_sar", acct.IsSAR())
		}
		acct.SetSAR(isSAR)

		alert, ok := s.Alert(alertID)
		if !ok {
			model, err := sim.NewTypology(s.Context(), int(modelID), minAmount, maxAmount, startStep, endStep)
			if err != nil {
				return err
			}
			alert = sim.NewAlert(alertID, model)
			if err := s.AddAlert(alert); err != nil {
				return err
			}
		} else {
			m := alert.Model()
			m.UpdateMinAmount(minAmount)
			m.UpdateMaxAmount(maxAmount)
			m.UpdateStartStep(startStep)
			m.UpdateEndStep(endStep)
		}
		schedules[alertID] = int(scheduleID)

		alert.AddMember(acct)
		if isMain {
			alert.SetMainAccount(acct)
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}

	// All members are known; build each alert's schedule exactly once.
	for _, alert := range s.Alerts() {
		scheduleID := schedules[alert.ID()]
		alert.Model().Configure(scheduleID)
		l.Audit.Log(map[string]any{
			"event":       "alert_scheduled",
			"alert_id":    alert.ID(),
			"model":       alert.Model().ModelName(),
			"schedule_id": scheduleID,
			"members":     len(alert.Members()),
			"is_sar":      alert.IsSAR(),
		})
	}
	l.Log.Info("loaded alert members", "file", path, "alerts", len(s.Alerts()), "members", count)
	return nil
}
