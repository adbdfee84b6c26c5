package screenplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ui_workflows/domain/entities"
)

var errNoResponse = errors.New("no request has been sent yet")

// GetRequest builds a GET request to path
func GetRequest(path string) entities.Request {
	return entities.Request{Method: http.MethodGet, Path: path}
}

// DeleteRequest builds a DELETE request to path
func DeleteRequest(path string) entities.Request {
	return entities.Request{Method: http.MethodDelete, Path: path}
}

// PostRequest builds a POST request to path carrying body as JSON
func PostRequest(path string, body interface{}) entities.Request {
	return entities.Request{Method: http.MethodPost, Path: path, Body: body}
}

// Send sends req with the actor's API client and remembers the response
func Send(req entities.Request) Activity {
	return Interaction(entities.ActionRequest, D("#actor sends a %s request to %s", req.Method, req.Path), func(ctx context.Context, actor *Actor) error {
		client, err := actor.callAnAPI()
		if err != nil {
			return err
		}
		resp, err := client.Send(ctx, req)
		if err != nil {
			return err
		}
		actor.lastResponse = &resp
		return nil
	})
}

// LastResponseStatus answers with the status code of the last response
func LastResponseStatus() Question[int] {
	return About("the status of the last response", func(ctx context.Context, actor *Actor) (int, error) {
		if actor.lastResponse == nil {
			return 0, errNoResponse
		}
		return actor.lastResponse.Status, nil
	})
}

// LastResponseBody answers with the last response body decoded from JSON
func LastResponseBody[T any]() Question[T] {
	return About("the body of the last response", func(ctx context.Context, actor *Actor) (T, error) {
		var body T
		if actor.lastResponse == nil {
			return body, errNoResponse
		}
		if err := json.Unmarshal(actor.lastResponse.Body, &body); err != nil {
			return body, fmt.Errorf("failed to decode response body: %w", err)
		}
		return body, nil
	})
}
