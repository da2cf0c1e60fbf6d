package routes

import (
	"fmt"
	"net/http"
	"testing"

	"gameplan-server/models"
	"gameplan-server/storage"
)

func TestFriendRequestLifecycle(t *testing.T) {
	app := newTestApp(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	aliceToken := signTestToken(t, alice)
	bobToken := signTestToken(t, bob)

	// Alice sends a request to Bob.
	resp := doRequest(t, app, http.MethodPost, "/api/friends/requests", aliceToken,
		map[string]uint{"toUserID": bob.ID})
	expectStatus(t, resp, http.StatusCreated)
	var sent struct {
		RequestID uint   `json:"requestID"`
		Status    string `json:"status"`
	}
	decodeBody(t, resp, &sent)
	if sent.Status != models.FriendStatusPending {
		t.Fatalf("expected pending, got %s", sent.Status)
	}

	// Duplicate send conflicts.
	resp = doRequest(t, app, http.MethodPost, "/api/friends/requests", aliceToken,
		map[string]uint{"toUserID": bob.ID})
	expectStatus(t, resp, http.StatusConflict)

	// Bob sees the incoming request.
	resp = doRequest(t, app, http.MethodGet, "/api/friends/requests", bobToken, nil)
	expectStatus(t, resp, http.StatusOK)
	var incoming struct {
		Requests []struct {
			RequestID uint `json:"requestID"`
		} `json:"requests"`
	}
	decodeBody(t, resp, &incoming)
	if len(incoming.Requests) != 1 || incoming.Requests[0].RequestID != sent.RequestID {
		t.Fatalf("expected Bob to see request %d, got %+v", sent.RequestID, incoming.Requests)
	}

	// Bob accepts; they are friends both ways.
	resp = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/accept", sent.RequestID), bobToken, nil)
	expectStatus(t, resp, http.StatusOK)

	for _, token := range []string{aliceToken, bobToken} {
		resp = doRequest(t, app, http.MethodGet, "/api/friends", token, nil)
		expectStatus(t, resp, http.StatusOK)
		var friends struct {
			Friends []models.PublicUser `json:"friends"`
		}
		decodeBody(t, resp, &friends)
		if len(friends.Friends) != 1 {
			t.Fatalf("expected 1 friend, got %d", len(friends.Friends))
		}
	}

	// Accept is monotonic: the request is resolved, a second accept is 404.
	resp = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/accept", sent.RequestID), bobToken, nil)
	expectStatus(t, resp, http.StatusNotFound)

	// No duplicate friendship was created by the second accept.
	var count int64
	storage.DB.Model(&models.FriendRequest{}).Where("status = ?", models.FriendStatusAccepted).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 accepted row, got %d", count)
	}

	// Either party can unfriend; a repeat delete reports not found.
	resp = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/friends/%d", alice.ID), bobToken, nil)
	expectStatus(t, resp, http.StatusNoContent)
	resp = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/friends/%d", alice.ID), bobToken, nil)
	expectStatus(t, resp, http.StatusNotFound)
}

func TestDeclineAndResend(t *testing.T) {
	app := newTestApp(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	aliceToken := signTestToken(t, alice)
	bobToken := signTestToken(t, bob)

	resp := doRequest(t, app, http.MethodPost, "/api/friends/requests", aliceToken,
		map[string]uint{"toUserID": bob.ID})
	expectStatus(t, resp, http.StatusCreated)
	var sent struct {
		RequestID uint `json:"requestID"`
	}
	decodeBody(t, resp, &sent)

	resp = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/decline", sent.RequestID), bobToken, nil)
	expectStatus(t, resp, http.StatusOK)

	// Declining again: the pending request is already gone.
	resp = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/decline", sent.RequestID), bobToken, nil)
	expectStatus(t, resp, http.StatusNotFound)

	// A declined pair can be asked again.
	resp = doRequest(t, app, http.MethodPost, "/api/friends/requests", aliceToken,
		map[string]uint{"toUserID": bob.ID})
	expectStatus(t, resp, http.StatusCreated)
}

func TestMutualRequestsCollapseToFriendship(t *testing.T) {
	app := newTestApp(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	aliceToken := signTestToken(t, alice)
	bobToken := signTestToken(t, bob)

	resp := doRequest(t, app, http.MethodPost, "/api/friends/requests", aliceToken,
		map[string]uint{"toUserID": bob.ID})
	expectStatus(t, resp, http.StatusCreated)

	// Bob answers with his own request before responding: it accepts
	// Alice's instead of creating a crossing pending pair.
	resp = doRequest(t, app, http.MethodPost, "/api/friends/requests", bobToken,
		map[string]uint{"toUserID": alice.ID})
	expectStatus(t, resp, http.StatusOK)
	var collapsed struct {
		Status string `json:"status"`
	}
	decodeBody(t, resp, &collapsed)
	if collapsed.Status != models.FriendStatusAccepted {
		t.Fatalf("expected accepted, got %s", collapsed.Status)
	}

	var pending int64
	storage.DB.Model(&models.FriendRequest{}).Where("status = ?", models.FriendStatusPending).Count(&pending)
	if pending != 0 {
		t.Fatalf("expected no pending requests left, got %d", pending)
	}
}

func TestSendFriendRequestGuards(t *testing.T) {
	app := newTestApp(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	aliceToken := signTestToken(t, alice)

	// Self-request.
	resp := doRequest(t, app, http.MethodPost, "/api/friends/requests", aliceToken,
		map[string]uint{"toUserID": alice.ID})
	expectStatus(t, resp, http.StatusUnprocessableEntity)

	// Unknown target.
	resp = doRequest(t, app, http.MethodPost, "/api/friends/requests", aliceToken,
		map[string]uint{"toUserID": 9999})
	expectStatus(t, resp, http.StatusNotFound)

	// Already friends.
	seedFriendship(t, alice.ID, bob.ID)
	resp = doRequest(t, app, http.MethodPost, "/api/friends/requests", aliceToken,
		map[string]uint{"toUserID": bob.ID})
	expectStatus(t, resp, http.StatusConflict)
}

func TestAcceptGuards(t *testing.T) {
	app := newTestApp(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	carol := createTestUser(t, "carol")
	aliceToken := signTestToken(t, alice)
	carolToken := signTestToken(t, carol)

	resp := doRequest(t, app, http.MethodPost, "/api/friends/requests", aliceToken,
		map[string]uint{"toUserID": bob.ID})
	expectStatus(t, resp, http.StatusCreated)
	var sent struct {
		RequestID uint `json:"requestID"`
	}
	decodeBody(t, resp, &sent)

	// Only the recipient may accept: anyone else sees not-found, the same
	// as an unknown id.
	resp = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/accept", sent.RequestID), carolToken, nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = doRequest(t, app, http.MethodPost, "/api/friends/requests/424242/accept", carolToken, nil)
	expectStatus(t, resp, http.StatusNotFound)
}

func TestCancelFriendRequest(t *testing.T) {
	app := newTestApp(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	aliceToken := signTestToken(t, alice)
	bobToken := signTestToken(t, bob)

	resp := doRequest(t, app, http.MethodPost, "/api/friends/requests", aliceToken,
		map[string]uint{"toUserID": bob.ID})
	expectStatus(t, resp, http.StatusCreated)
	var sent struct {
		RequestID uint `json:"requestID"`
	}
	decodeBody(t, resp, &sent)

	// Only the sender may cancel.
	resp = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/friends/requests/%d", sent.RequestID), bobToken, nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/friends/requests/%d", sent.RequestID), aliceToken, nil)
	expectStatus(t, resp, http.StatusNoContent)

	// Bob no longer sees it.
	resp = doRequest(t, app, http.MethodGet, "/api/friends/requests", bobToken, nil)
	expectStatus(t, resp, http.StatusOK)
	var incoming struct {
		Requests []struct{} `json:"requests"`
	}
	decodeBody(t, resp, &incoming)
	if len(incoming.Requests) != 0 {
		t.Fatalf("expected no pending requests, got %d", len(incoming.Requests))
	}
}
