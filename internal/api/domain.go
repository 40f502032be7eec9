package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/intakeworks/storygate/internal/breaker"
	"github.com/intakeworks/storygate/internal/credentials"
	"github.com/intakeworks/storygate/internal/evaluation"
	"github.com/intakeworks/storygate/internal/ledger"
	"github.com/intakeworks/storygate/internal/llm"
	"github.com/intakeworks/storygate/internal/moderation"
	"github.com/intakeworks/storygate/internal/notify"
	"github.com/intakeworks/storygate/internal/persist"
	"github.com/intakeworks/storygate/internal/respond"
	"github.com/intakeworks/storygate/internal/scoring"
	"github.com/intakeworks/storygate/internal/session"
	"github.com/intakeworks/storygate/internal/submission"
)

// Domain holds the wired intake pipeline and its handlers.
type Domain struct {
	Orchestrator *session.Orchestrator
	Credentials  *credentials.Handler
	Messages     *MessageHandler
}

// NewDomain wires all domain systems from the API runtime. Each remote
// capability gets its own retry caller and breaker instance.
func NewDomain(runtime *Runtime) *Domain {
	logger := runtime.Logger

	client := llm.NewClient(llm.Options{
		BaseURL: runtime.AI.BaseURL,
		APIKey:  runtime.AI.APIKey,
		Model:   runtime.AI.Model,
	})
	caller := func(name string) (*llm.Caller, *breaker.Breaker) {
		c := llm.NewCaller(client, runtime.AI.RetryCount, runtime.AI.RetryDelayDuration(), runtime.AI.CallTimeoutDuration(), logger.With("capability", name))
		return c, breaker.New(name, runtime.AI.BreakerThreshold, logger)
	}

	evalCaller, evalBreaker := caller("evaluation")
	modCaller, modBreaker := caller("moderation")
	genCaller, genBreaker := caller("generation")

	evaluationSystem := evaluation.New(evalCaller, evalBreaker, runtime.AI.UseEvaluation, logger)
	moderationSystem := moderation.New(modCaller, modBreaker, runtime.AI.UseModeration, logger)
	composer := respond.New(genCaller, genBreaker, runtime.AI.UseResponses, runtime.Intake.EventName, logger)

	var notifier notify.System = notify.Disabled{}
	if runtime.Notify.Enabled {
		notifier = notify.New(notify.Options{
			Host:     runtime.Notify.Host,
			Port:     runtime.Notify.Port,
			From:     runtime.Notify.From,
			Password: runtime.Notify.Password,
		}, logger)
	}

	repo := credentials.NewRepository(runtime.Database.Connection())

	var backup persist.BackupStore
	if runtime.Storage != nil {
		backup = runtime.Storage
	}
	metrics := persist.NewMetrics(prometheus.DefaultRegisterer)
	pipeline := persist.New(repo, backup, metrics, runtime.AI.CallTimeoutDuration(), logger)

	classifier := scoring.NewClassifier(runtime.Intake.PremiumThreshold, runtime.Intake.StandardThreshold)
	issuanceLedger := ledger.New(repo, pipeline, classifier, runtime.Intake.EventID, decisionTimeout, logger)

	validator := submission.NewValidator(runtime.Intake.MinSubmissionLength, runtime.Intake.MaxSubmissionLength)
	orchestrator := session.New(issuanceLedger, validator, moderationSystem, evaluationSystem, composer, notifier, session.Options{
		MaxSubmissions: runtime.Intake.MaxSubmissionsPerUser,
		IntentKeywords: runtime.Intake.IntentKeywords,
		EmailKeywords:  runtime.Intake.EmailKeywords,
	}, logger)

	return &Domain{
		Orchestrator: orchestrator,
		Credentials:  credentials.NewHandler(repo, runtime.Pagination, runtime.Intake.EventID, logger),
		Messages:     NewMessageHandler(orchestrator, logger),
	}
}
