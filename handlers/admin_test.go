// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/pollstream/live-polls/models"
	"github.com/pollstream/live-polls/polls"
	"github.com/pollstream/live-polls/testutil"
)

func newAdminHandler(fx *pollHandlerFixture) *AdminHandler {
	agg := polls.NewAggregator(fx.conn)
	return NewAdminHandler(polls.NewLifecycle(fx.conn, agg, fx.hub))
}

func TestListAllHandler(t *testing.T) {
	fx := newPollHandlerFixture(t)
	handler := newAdminHandler(fx)

	testutil.CreateTestPoll(t, fx.conn, fx.creator.ID, true, false)
	testutil.CreateTestPoll(t, fx.conn, fx.creator.ID, false, false)

	req := testutil.MakeRequest("GET", "/admin/polls", nil, nil)
	w := fx.do(t, handler.ListAll, fx.voter, req, nil)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	req = testutil.MakeRequest("GET", "/admin/polls", nil, nil)
	w = fx.do(t, handler.ListAll, fx.admin, req, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp struct {
		Total int                  `json:"total"`
		Polls []models.PollSummary `json:"polls"`
	}
	testutil.AssertJSON(t, w, &resp)
	if resp.Total != 2 || len(resp.Polls) != 2 {
		t.Errorf("Expected both polls for admin, got total %d len %d", resp.Total, len(resp.Polls))
	}
}

func TestListVotersHandler(t *testing.T) {
	fx := newPollHandlerFixture(t)
	handler := newAdminHandler(fx)

	pollID := testutil.CreateTestPoll(t, fx.conn, fx.creator.ID, true, false)
	optA := testutil.AddTestOption(t, fx.conn, pollID, "A")
	testutil.CastTestVote(t, fx.conn, fx.voter.ID, pollID, optA)

	req := testutil.MakeRequest("GET", "/polls/"+pollID+"/voters", nil, nil)
	w := fx.do(t, handler.ListVoters, fx.creator, req, map[string]string{"id": pollID})
	testutil.AssertStatus(t, w, http.StatusForbidden)

	req = testutil.MakeRequest("GET", "/polls/"+pollID+"/voters", nil, nil)
	w = fx.do(t, handler.ListVoters, fx.admin, req, map[string]string{"id": pollID})
	testutil.AssertStatus(t, w, http.StatusOK)

	var voters []models.VoterEntry
	testutil.AssertJSON(t, w, &voters)
	if len(voters) != 1 {
		t.Fatalf("Expected 1 voter, got %d", len(voters))
	}
	if voters[0].User.ID != fx.voter.ID || voters[0].Option.ID != optA {
		t.Errorf("Expected voter entry for the cast vote, got %+v", voters[0])
	}
}
