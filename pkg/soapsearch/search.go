package soapsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/jirasearch/internal"
	"github.com/m-mizutani/jirasearch/internal/adaptor"
	"github.com/m-mizutani/jirasearch/internal/config"
	"github.com/m-mizutani/jirasearch/internal/output"
	"github.com/m-mizutani/jirasearch/internal/transform"
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Verb is sub-command of RPC search
type Verb string

// Supported verbs
const (
	VerbFilters   Verb = "filters"
	VerbIssues    Verb = "issues"
	VerbSearch    Verb = "search"
	VerbJQLSearch Verb = "jqlsearch"
)

// Verbs returns all supported verbs
func Verbs() []Verb {
	return []Verb{VerbFilters, VerbIssues, VerbSearch, VerbJQLSearch}
}

const (
	// MaxResults is upper limit of issues requested by search verbs
	MaxResults = 1000

	// Sourcetype of all rows from RPC service
	Sourcetype = "jira_soap"
	// FiltersSource is source of rows of filters verb
	FiltersSource = "filters"
)

// ErrInvalidArgument means invocation arguments are wrong, not remote service.
var ErrInvalidArgument = errors.New("Invalid argument")

var filterKeys = []transform.Key{
	{Name: "author"},
	{Name: "id"},
	{Name: "name"},
}

func issueKeys(statuses, resolutions, priorities models.LookupTable) []transform.Key {
	return []transform.Key{
		{Name: "assignee"},
		{Name: "description"},
		{Name: "key"},
		{Name: "summary"},
		{Name: "reporter"},
		{Name: "fixVersions"},
		{Name: "status", Lookup: statuses},
		{Name: "resolution", Lookup: resolutions},
		{Name: "priority", Lookup: priorities},
		{Name: "project"},
		{Name: "type"},
		{Name: "created"},
		{Name: "duedate"},
		{Name: "updated"},
	}
}

// Searcher calls RPC methods of Jira and converts results to rows.
type Searcher struct {
	cfg     *config.Config
	newJira adaptor.JiraClientFactory
	logger  logrus.FieldLogger
	now     func() time.Time
}

// New is constructor of Searcher
func New(cfg *config.Config, newJira adaptor.JiraClientFactory, logger logrus.FieldLogger) *Searcher {
	return &Searcher{
		cfg:     cfg,
		newJira: newJira,
		logger:  logger,
		now:     time.Now,
	}
}

// ValidateArgs checks verb and its argument. Only filters verb does not require argument.
func ValidateArgs(verb Verb, arg string) error {
	switch verb {
	case VerbFilters:
		return nil
	case VerbIssues, VerbSearch, VerbJQLSearch:
		if arg == "" {
			return errors.Wrapf(ErrInvalidArgument, "%s requires an argument", verb)
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidArgument, "Unknown verb '%s', available verbs are %v", verb, Verbs())
	}
}

// Search logs in the RPC service, runs verb and emits all rows at once.
func (x *Searcher) Search(ctx context.Context, verb Verb, arg string, emitter output.Emitter) error {
	if err := ValidateArgs(verb, arg); err != nil {
		return err
	}
	if err := x.cfg.Validate(); err != nil {
		return err
	}
	if err := x.cfg.ValidateService(); err != nil {
		return err
	}

	x.logger.WithFields(logrus.Fields{
		"url":  x.cfg.ServiceURL(),
		"verb": verb,
		"arg":  arg,
	}).Info("Calling RPC service")

	prof := internal.NewProfile()
	defer func() {
		x.logger.WithField("profile", prof.Pack()).Debug("Search finished")
	}()

	client := x.newJira(x.cfg.ServiceEndpoint())
	stop := prof.Start("login")
	token, err := client.Login(ctx, x.cfg.Username, x.cfg.Password)
	stop()
	if err != nil {
		return errors.Wrap(err, "Fail to login")
	}

	var rows []models.Row
	stop = prof.Start(string(verb))
	if verb == VerbFilters {
		rows, err = x.filters(ctx, client, token)
	} else {
		rows, err = x.issues(ctx, client, token, verb, arg)
	}
	stop()
	if err != nil {
		return err
	}

	if err := emitter.Emit(rows); err != nil {
		return errors.Wrap(err, "Fail to emit rows")
	}

	return nil
}

func (x *Searcher) routing(source string) models.Routing {
	return models.Routing{
		Host:       x.cfg.Hostname,
		Index:      models.DefaultIndex,
		Source:     source,
		Sourcetype: Sourcetype,
	}
}

func (x *Searcher) filters(ctx context.Context, client adaptor.JiraClient, token string) ([]models.Row, error) {
	filters, err := client.GetFavouriteFilters(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "Fail to get favourite filters")
	}

	now := x.now().Unix()
	rows := make([]models.Row, 0, len(filters))
	for _, filter := range filters {
		row := transform.Flatten(filter, filterKeys)
		row.SetTime(now)
		row.SetRouting(x.routing(FiltersSource))
		if err := row.Seal(); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (x *Searcher) fetchIssues(ctx context.Context, client adaptor.JiraClient, token string, verb Verb, arg string) ([]models.RemoteIssue, error) {
	switch verb {
	case VerbIssues:
		return client.GetIssuesFromFilter(ctx, token, arg)
	case VerbSearch:
		return client.GetIssuesFromTextSearch(ctx, token, arg, MaxResults)
	case VerbJQLSearch:
		return client.GetIssuesFromJqlSearch(ctx, token, arg, MaxResults)
	default:
		return nil, errors.Wrapf(ErrInvalidArgument, "Unknown verb '%s'", verb)
	}
}

func (x *Searcher) lookupTables(ctx context.Context, client adaptor.JiraClient, token string) ([]transform.Key, error) {
	statuses, err := client.GetStatuses(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "Fail to get statuses")
	}
	resolutions, err := client.GetResolutions(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "Fail to get resolutions")
	}
	priorities, err := client.GetPriorities(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "Fail to get priorities")
	}

	resolutionTable := models.NewLookupTable(resolutions)
	resolutionTable[models.NoResolution] = models.UnresolvedLabel

	return issueKeys(
		models.NewLookupTable(statuses),
		resolutionTable,
		models.NewLookupTable(priorities),
	), nil
}

func (x *Searcher) issues(ctx context.Context, client adaptor.JiraClient, token string, verb Verb, arg string) ([]models.Row, error) {
	issues, err := x.fetchIssues(ctx, client, token, verb, arg)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to get issues by %s", verb)
	}

	keys, err := x.lookupTables(ctx, client, token)
	if err != nil {
		return nil, err
	}

	rows := make([]models.Row, 0, len(issues))
	for _, issue := range issues {
		row := transform.Flatten(issue, keys)

		for _, field := range issue.CustomFieldValues {
			if name, ok := x.cfg.CustomFields[field.CustomfieldID]; ok {
				row[name] = []string(field.Values)
			}
		}

		ts, err := issueTime(row)
		if err != nil {
			return nil, errors.Wrapf(err, "Invalid issue %s", issue.Key)
		}
		row.SetTime(ts)
		row.SetRouting(x.routing(arg))

		if err := row.Seal(); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func issueTime(row models.Row) (int64, error) {
	updated := row.String("updated")
	if updated == "" {
		return 0, fmt.Errorf("updated is not available")
	}

	ts, err := time.ParseInLocation(models.RowTimeFormat, updated, time.Local)
	if err != nil {
		return 0, errors.Wrapf(err, "Fail to parse updated: %s", updated)
	}
	return ts.Unix(), nil
}
