package main

import (
	"encoding/json"
	"strings"
	"testing"

	"motk/internal/store"
)

func TestCreateAndGetRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")

	out := mustRunCLI(t, env, "create", "shot",
		"--field", "shot_id=sh001",
		"--field", "title=Opening",
		"--field", "episode=01",
		"--field", "priority=3")
	requireContains(t, out, "sh001")
	requireContains(t, out, "Opening")

	out = mustRunCLI(t, env, "get", "shot", "sh001")
	requireContains(t, out, "Opening")
	requireContains(t, out, "01")
}

func TestCreateGeneratesIDWhenOmitted(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")

	out := mustRunCLI(t, env, "create", "shot", "--field", "title=Auto")
	requireContains(t, out, "shot_")
}

func TestCreateJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")

	out := mustRunCLI(t, env, "--output", "json", "create", "user",
		"--field", "user_id=u1",
		"--field", "email=sam@example.com",
		"--field", "name=Sam")

	var result store.OperationResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("unmarshal result: %v\noutput: %s", err, out)
	}
	if !result.Success {
		t.Fatalf("expected success, got %s: %s", result.Failure, result.Error)
	}
	if result.Data["user_id"] != "u1" {
		t.Fatalf("unexpected user_id %v", result.Data["user_id"])
	}
}

func TestCreateValidationFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")

	_, _, err := runCLI(t, []string{"create", "shot", "--field", "episode=01"}, env.configPath)
	if err == nil {
		t.Fatal("expected create without title to fail")
	}
	requireContains(t, err.Error(), "validation")
}

func TestCreateRejectsUnknownField(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")

	_, _, err := runCLI(t, []string{"create", "shot", "--field", "nickname=Oppy"}, env.configPath)
	if err == nil {
		t.Fatal("expected unknown field to fail")
	}
	requireContains(t, err.Error(), "unknown field")
}

func TestCreateRejectsUnknownType(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"create", "widget"}, env.configPath)
	if err == nil {
		t.Fatal("expected unknown type to fail")
	}
	requireContains(t, err.Error(), "unknown entity type")
}

func TestCreateCoercesTypedFields(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")

	_, _, err := runCLI(t, []string{"create", "shot",
		"--field", "title=Typed",
		"--field", "priority=high"}, env.configPath)
	if err == nil {
		t.Fatal("expected non-integer priority to fail")
	}
	requireContains(t, err.Error(), "integer")

	out := mustRunCLI(t, env, "create", "shot",
		"--field", "title=Typed",
		"--field", "priority=7",
		"--field", "due_date=2026-03-01")
	requireContains(t, out, "7")
	requireContains(t, out, "2026-03-01")
}

func TestUpdateCommitsField(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")
	mustRunCLI(t, env, "create", "shot", "--field", "shot_id=sh010", "--field", "title=First")

	out := mustRunCLI(t, env, "update", "shot", "sh010", "--field", "status=in_progress")
	requireContains(t, out, "in_progress")

	out = mustRunCLI(t, env, "get", "shot", "sh010")
	requireContains(t, out, "in_progress")
}

func TestUpdateMissingEntity(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")

	_, _, err := runCLI(t, []string{"update", "shot", "ghost", "--field", "status=review"}, env.configPath)
	if err == nil {
		t.Fatal("expected update of missing entity to fail")
	}
	requireContains(t, err.Error(), "not_found")
}

func TestUpdateRequiresFields(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")

	_, _, err := runCLI(t, []string{"update", "shot", "sh010"}, env.configPath)
	if err == nil {
		t.Fatal("expected update without fields to fail")
	}
	requireContains(t, err.Error(), "no fields to update")
}

func TestDeleteRefusedWhileReferenced(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")
	mustRunCLI(t, env, "create", "user",
		"--field", "user_id=u1",
		"--field", "email=sam@example.com",
		"--field", "name=Sam")
	mustRunCLI(t, env, "create", "member",
		"--field", "member_id=m1",
		"--field", "user_id=u1")

	out, _, err := runCLI(t, []string{"delete", "user", "u1"}, env.configPath)
	if err == nil {
		t.Fatal("expected referenced delete to fail")
	}
	requireContains(t, err.Error(), "constraint")
	requireContains(t, out, "still reference")
	requireContains(t, out, "user_id")

	// Deleting the referencing member unblocks the user.
	mustRunCLI(t, env, "delete", "member", "m1")
	out = mustRunCLI(t, env, "delete", "user", "u1")
	requireContains(t, out, "Deleted user u1")

	_, _, err = runCLI(t, []string{"get", "user", "u1"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "not_found") {
		t.Fatalf("expected u1 to be gone, got err=%v", err)
	}
}

func TestLinkAssignsTarget(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")
	mustRunCLI(t, env, "create", "shot", "--field", "shot_id=sh020", "--field", "title=Linked")
	mustRunCLI(t, env, "create", "task", "--field", "task_id=t1", "--field", "title=Comp")

	out := mustRunCLI(t, env, "link", "task", "t1", "shot_id", "sh020")
	requireContains(t, out, "sh020")
}

func TestLinkMissingTarget(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")
	mustRunCLI(t, env, "create", "task", "--field", "task_id=t2", "--field", "title=Orphan")

	_, _, err := runCLI(t, []string{"link", "task", "t2", "shot_id", "ghost"}, env.configPath)
	if err == nil {
		t.Fatal("expected link to missing target to fail")
	}
	requireContains(t, err.Error(), "not_found")
}
