package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// getPathUUID extracts a UUID from the URL path parameters.
//
// An ID that does not parse cannot name any stored record, so it is reported
// as not found rather than as a validation failure.
func getPathUUID(r *http.Request, paramName string, notFound error) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, notFound
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed id %q", notFound, pathParam)
	}
	return id, nil
}

// parseListOptions reads ?completed=, ?sortBy=field-dir, ?limit= and ?skip=.
func parseListOptions(r *http.Request) (store.ListTasksOptions, error) {
	var opts store.ListTasksOptions
	q := r.URL.Query()

	if raw := q.Get("completed"); raw != "" {
		switch raw {
		case "true":
			completed := true
			opts.Completed = &completed
		case "false":
			completed := false
			opts.Completed = &completed
		default:
			return opts, &domain.ValidationError{Field: "completed", Message: "completed must be true or false"}
		}
	}

	if raw := q.Get("sortBy"); raw != "" {
		sort, err := parseSortBy(raw)
		if err != nil {
			return opts, err
		}
		opts.Sort = sort
	}

	var err error
	if opts.Limit, err = nonNegativeInt(q.Get("limit"), "limit"); err != nil {
		return opts, err
	}
	if opts.Skip, err = nonNegativeInt(q.Get("skip"), "skip"); err != nil {
		return opts, err
	}
	return opts, nil
}

// parseSortBy parses "<field>-<dir>". Only "asc" sorts ascending; any other
// direction, including none, sorts descending.
func parseSortBy(raw string) (*store.TaskSort, error) {
	name, dir, _ := strings.Cut(raw, "-")
	field, ok := store.ParseTaskSortField(name)
	if !ok {
		return nil, &domain.ValidationError{Field: "sortBy", Message: fmt.Sprintf("cannot sort by %q", name)}
	}
	return &store.TaskSort{Field: field, Descending: dir != "asc"}, nil
}

func nonNegativeInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &domain.ValidationError{Field: field, Message: field + " must be a non-negative integer"}
	}
	return n, nil
}
