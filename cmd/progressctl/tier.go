package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/solbot-backend/internal/data/repos"
	"github.com/yungbote/solbot-backend/internal/domain/learner"
	"github.com/yungbote/solbot-backend/internal/platform/envutil"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"github.com/yungbote/solbot-backend/internal/storage"
)

func newTierCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tier",
		Short: "Inspect the storage tiers",
	}
	cmd.AddCommand(newTierStatusCmd())
	cmd.AddCommand(newTierInspectCmd(opts))
	return cmd
}

func newTierStatusCmd() *cobra.Command {
	var apiURL string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the API's storage status, including records held only in memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(apiURL, "/")+"/api/status", nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("api unreachable: %w", err)
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}
			var status struct {
				Status           string `json:"status"`
				EphemeralRecords int    `json:"ephemeralRecords"`
			}
			if err := json.Unmarshal(body, &status); err != nil {
				return fmt.Errorf("decode status: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\nephemeral records: %d\n", status.Status, status.EphemeralRecords)
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "http://localhost:"+envutil.String("PORT", "8080", nil), "API base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	return cmd
}

type inspectOptions struct {
	tier         string
	secondaryURL string
	kind         string
	learnerID    string
	dataType     string
	phaseID      string
	key          string
	limit        int
	timeout      time.Duration
}

func newTierInspectCmd(opts *rootOptions) *cobra.Command {
	in := &inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List records held by the primary or secondary tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := in.filter()
			if err != nil {
				return err
			}
			log, err := opts.logger()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), in.timeout)
			defer cancel()
			recs, err := in.get(ctx, opts, log, f)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		},
	}
	cmd.Flags().StringVar(&in.tier, "tier", "secondary", "Tier to read (primary or secondary)")
	cmd.Flags().StringVar(&in.secondaryURL, "secondary-url", envutil.String("SECONDARY_BASE_URL", "http://localhost:8081", nil), "Record service base URL")
	cmd.Flags().StringVar(&in.kind, "kind", string(storage.KindTelemetry), "Record kind")
	cmd.Flags().StringVar(&in.learnerID, "learner", "", "Learner id (raw or UUID)")
	cmd.Flags().StringVar(&in.dataType, "data-type", "", "Telemetry data type")
	cmd.Flags().StringVar(&in.phaseID, "phase", "", "Phase id")
	cmd.Flags().StringVar(&in.key, "key", "", "Enrollment or rubric id")
	cmd.Flags().IntVar(&in.limit, "limit", 50, "Maximum records")
	cmd.Flags().DurationVar(&in.timeout, "timeout", storage.DefaultAttemptTimeout, "Read timeout")
	return cmd
}

func (in *inspectOptions) filter() (storage.Filter, error) {
	f := storage.Filter{
		Kind:     storage.Kind(in.kind),
		DataType: in.dataType,
		PhaseID:  in.phaseID,
		Key:      in.key,
		Limit:    in.limit,
	}
	if !f.Kind.Valid() {
		return f, fmt.Errorf("unknown kind %q", in.kind)
	}
	if in.learnerID != "" {
		id, err := learner.KeyFor(in.learnerID)
		if err != nil {
			return f, err
		}
		f.LearnerID = id
	}
	return f, nil
}

func (in *inspectOptions) get(ctx context.Context, opts *rootOptions, log *logger.Logger, f storage.Filter) ([]*storage.Record, error) {
	switch in.tier {
	case string(storage.TierSecondary):
		return storage.NewSecondary(in.secondaryURL, &http.Client{}, log).Get(ctx, f)
	case string(storage.TierPrimary):
		svc, err := opts.openPrimary(log)
		if err != nil {
			return nil, err
		}
		defer svc.Close()
		return storage.NewPrimary(svc.DB(), repos.NewSet(svc.DB(), log), log).Get(ctx, f)
	default:
		return nil, fmt.Errorf("unknown tier %q (want primary or secondary)", in.tier)
	}
}
