// Package checker runs the post-install checklist against a live site:
// it probes connectivity with the stored key, then exercises each
// operation the local policy permits, reporting denied ones as skipped
// rather than failed. Artifacts it creates are tagged with the run id
// and removed afterwards.
package checker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/openclaw/ghostctl/pkg/ghost"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusPass Status = "pass"

	// StatusSkip means the check could not run: its operation is denied
	// by the local policy, or an earlier check did not produce the
	// artifact it needs. A configuration outcome, not a failure.
	StatusSkip Status = "skip"

	StatusFail Status = "fail"
)

// Result is the outcome of one checklist entry.
type Result struct {
	// Name is the human-readable check name, such as "Create draft post".
	Name string

	Status Status

	// Detail carries the pass summary, the failure message, or the
	// policy rule behind a skip.
	Detail string

	Elapsed time.Duration
}

// Report aggregates one checklist run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []Result
}

// Counts returns the passed, skipped and failed totals.
func (r *Report) Counts() (passed, skipped, failed int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusPass:
			passed++
		case StatusSkip:
			skipped++
		case StatusFail:
			failed++
		}
	}
	return passed, skipped, failed
}

// Err returns an aggregate of every failed check, or nil when the run is
// clean. Skipped checks are not failures.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, res := range r.Results {
		if res.Status == StatusFail {
			result = multierror.Append(result, fmt.Errorf("%s: %s", res.Name, res.Detail))
		}
	}
	return result.ErrorOrNil()
}

// errNoArtifact marks a check that could not run because an earlier
// check did not produce the resource it depends on.
var errNoArtifact = errors.New("prerequisite artifact unavailable")

// Config for a Checker.
type Config struct {
	// Client is the policy-gated client the checks exercise.
	Client *ghost.Client

	// CleanupClient removes leftover artifacts when the primary client's
	// policy cannot delete them. Callers build it with an explicitly
	// permissive delete policy; it is used for nothing else. Optional.
	CleanupClient *ghost.Client

	// ProbeWindow bounds the connection probe's retry window.
	// Default: 10 seconds.
	ProbeWindow time.Duration

	// OnResult, when set, observes each result as it is recorded. The
	// checker never prints; callers stream progress through this.
	OnResult func(Result)

	Logger hclog.Logger
}

// Checker runs the checklist. Build one per run configuration; Run may
// be called repeatedly.
type Checker struct {
	client      *ghost.Client
	cleanup     *ghost.Client
	probeWindow time.Duration
	onResult    func(Result)
	logger      hclog.Logger
}

// New creates a Checker from cfg.
func New(cfg Config) (*Checker, error) {
	if cfg.Client == nil {
		return nil, errors.New("client is required")
	}
	if cfg.ProbeWindow == 0 {
		cfg.ProbeWindow = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	return &Checker{
		client:      cfg.Client,
		cleanup:     cfg.CleanupClient,
		probeWindow: cfg.ProbeWindow,
		onResult:    cfg.OnResult,
		logger:      cfg.Logger.Named("checker"),
	}, nil
}

func (c *Checker) record(report *Report, res Result) {
	report.Results = append(report.Results, res)
	if c.onResult != nil {
		c.onResult(res)
	}
}

// Run executes the checklist in order. The connection probe aborts the
// run when the site is unreachable; after that, every check runs
// regardless of earlier failures so one broken permission does not hide
// the rest.
func (c *Checker) Run(ctx context.Context) *Report {
	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
	shortID := report.RunID[:8]

	connect := c.checkConnection(ctx)
	c.record(report, connect)
	if connect.Status == StatusFail {
		report.FinishedAt = time.Now()
		return report
	}

	var postID, tagID string
	var postDeleted, tagDeleted bool

	run := func(name string, fn func(context.Context) (string, error)) {
		start := time.Now()
		detail, err := fn(ctx)

		res := Result{Name: name, Elapsed: time.Since(start)}
		switch {
		case err == nil:
			res.Status = StatusPass
			res.Detail = detail
		case errors.Is(err, ghost.ErrPermissionDenied):
			res.Status = StatusSkip
			if reason, ok := ghost.DenialReason(err); ok {
				res.Detail = "denied by policy: " + reason
			} else {
				res.Detail = "denied by policy"
			}
		case errors.Is(err, errNoArtifact):
			res.Status = StatusSkip
			res.Detail = err.Error()
		default:
			res.Status = StatusFail
			res.Detail = err.Error()
		}

		c.logger.Debug("check finished",
			"check", name, "status", string(res.Status), "elapsed_ms", res.Elapsed.Milliseconds())
		c.record(report, res)
	}

	run("Read posts", func(ctx context.Context) (string, error) {
		list, err := c.client.ListPosts(ctx, ghost.ListOptions{Limit: 1})
		if err != nil {
			return "", err
		}
		if list.Meta.TotalKnown {
			return fmt.Sprintf("%d posts", list.Meta.Total), nil
		}
		return "post count unknown", nil
	})

	run("Read tags", func(ctx context.Context) (string, error) {
		list, err := c.client.ListTags(ctx, ghost.ListOptions{Limit: 1})
		if err != nil {
			return "", err
		}
		if list.Meta.TotalKnown {
			return fmt.Sprintf("%d tags", list.Meta.Total), nil
		}
		return "tag count unknown", nil
	})

	run("Create draft post", func(ctx context.Context) (string, error) {
		post, err := c.client.CreatePost(ctx, map[string]interface{}{
			"title":  fmt.Sprintf("[init-check] delete me %s", shortID),
			"html":   "<p>Connectivity check artifact. Safe to delete.</p>",
			"status": "draft",
		})
		if err != nil {
			return "", err
		}
		postID = post.ID
		return "created " + post.ID, nil
	})

	run("Update post", func(ctx context.Context) (string, error) {
		if postID == "" {
			return "", fmt.Errorf("%w: no draft from the create check", errNoArtifact)
		}
		_, err := c.client.UpdatePost(ctx, postID, map[string]interface{}{
			"custom_excerpt": "Updated by the connectivity checklist.",
		})
		if err != nil {
			return "", err
		}
		return "updated " + postID, nil
	})

	run("Publish post", func(ctx context.Context) (string, error) {
		if postID == "" {
			return "", fmt.Errorf("%w: no draft from the create check", errNoArtifact)
		}
		post, err := c.client.PublishPost(ctx, postID)
		if err != nil {
			return "", err
		}
		if post.Status != ghost.PostStatusPublished {
			return "", fmt.Errorf("expected published status, got %q", post.Status)
		}
		return "published " + postID, nil
	})

	run("Unpublish post", func(ctx context.Context) (string, error) {
		if postID == "" {
			return "", fmt.Errorf("%w: no draft from the create check", errNoArtifact)
		}
		post, err := c.client.UnpublishPost(ctx, postID)
		if err != nil {
			return "", err
		}
		if post.Status != ghost.PostStatusDraft {
			return "", fmt.Errorf("expected draft status, got %q", post.Status)
		}
		return "back to draft", nil
	})

	run("Create tag", func(ctx context.Context) (string, error) {
		tag, err := c.client.CreateTag(ctx, "init-check-"+shortID, map[string]interface{}{
			"description": "Connectivity check artifact. Safe to delete.",
		})
		if err != nil {
			return "", err
		}
		tagID = tag.ID
		return "created " + tag.ID, nil
	})

	run("Delete post", func(ctx context.Context) (string, error) {
		if postID == "" {
			return "", fmt.Errorf("%w: no draft from the create check", errNoArtifact)
		}
		if err := c.client.DeletePost(ctx, postID); err != nil {
			return "", err
		}
		postDeleted = true
		return "deleted " + postID, nil
	})

	run("Delete tag", func(ctx context.Context) (string, error) {
		if tagID == "" {
			return "", fmt.Errorf("%w: no tag from the create check", errNoArtifact)
		}
		if err := c.client.DeleteTag(ctx, tagID); err != nil {
			return "", err
		}
		tagDeleted = true
		return "deleted " + tagID, nil
	})

	run("List members", func(ctx context.Context) (string, error) {
		list, err := c.client.ListMembers(ctx, ghost.ListOptions{Limit: 1})
		if err != nil {
			return "", err
		}
		if list.Meta.TotalKnown {
			return fmt.Sprintf("%d members", list.Meta.Total), nil
		}
		return "member count unknown", nil
	})

	c.removeLeftovers(ctx, postID, tagID, postDeleted, tagDeleted)

	report.FinishedAt = time.Now()
	return report
}

// checkConnection probes the site with a short exponential backoff. The
// client itself never retries; transient startup flakiness is the
// checker's concern. Anything that is not a transport failure aborts
// immediately, a bad key in particular.
func (c *Checker) checkConnection(ctx context.Context) Result {
	start := time.Now()

	var site *ghost.Site
	operation := func() error {
		s, err := c.client.GetSite(ctx)
		if err != nil {
			if errors.Is(err, ghost.ErrTransport) {
				return err
			}
			return backoff.Permanent(err)
		}
		site = s
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = c.probeWindow

	err := backoff.Retry(operation, backoff.WithContext(policy, ctx))

	res := Result{Name: "Connect", Elapsed: time.Since(start)}
	if err != nil {
		res.Status = StatusFail
		res.Detail = err.Error()
		return res
	}

	res.Status = StatusPass
	res.Detail = site.Title
	if site.Version != "" {
		res.Detail = fmt.Sprintf("%s (v%s)", site.Title, site.Version)
	}
	c.logger.Debug("connected to site",
		"title", site.Title, "url", site.URL, "version", site.Version)
	return res
}

// removeLeftovers deletes artifacts the checklist itself could not,
// typically because the policy denies deletions. It goes through the
// dedicated cleanup client so the primary client's gate stays intact.
// Failures here are logged, never turned into check failures.
func (c *Checker) removeLeftovers(ctx context.Context, postID, tagID string, postDeleted, tagDeleted bool) {
	leftoverPost := postID != "" && !postDeleted
	leftoverTag := tagID != "" && !tagDeleted
	if !leftoverPost && !leftoverTag {
		return
	}

	if c.cleanup == nil {
		c.logger.Warn("leaving checklist artifacts behind: no cleanup client configured",
			"post_id", postID, "tag_id", tagID)
		return
	}

	if leftoverPost {
		if err := c.cleanup.DeletePost(ctx, postID); err != nil {
			c.logger.Warn("failed to clean up checklist post", "post_id", postID, "error", err)
		} else {
			c.logger.Debug("cleaned up checklist post", "post_id", postID)
		}
	}
	if leftoverTag {
		if err := c.cleanup.DeleteTag(ctx, tagID); err != nil {
			c.logger.Warn("failed to clean up checklist tag", "tag_id", tagID, "error", err)
		} else {
			c.logger.Debug("cleaned up checklist tag", "tag_id", tagID)
		}
	}
}
