package conversation_test

import (
	"testing"

	"github.com/loryanstrant/azure-ai-tasks/conversation"
)

func TestNewLog_UniqueIDs(t *testing.T) {
	a := conversation.NewLog()
	b := conversation.NewLog()

	if a.ConversationID() == "" {
		t.Fatal("conversation ID is empty")
	}
	if a.ConversationID() == b.ConversationID() {
		t.Error("two logs share a conversation ID")
	}
}

func TestLog_ContentOrderAndAttribution(t *testing.T) {
	log := conversation.NewLog()
	log.AddUserContent("describe this photo")
	log.AddAssistantContent("entity.kitchen", "a bowl of fruit")

	contents := log.Contents()
	if len(contents) != 2 {
		t.Fatalf("got %d entries, want 2", len(contents))
	}
	if contents[0].Role != conversation.RoleUser || contents[0].Text != "describe this photo" {
		t.Errorf("unexpected first entry: %+v", contents[0])
	}
	if contents[1].Role != conversation.RoleAssistant || contents[1].AgentID != "entity.kitchen" {
		t.Errorf("unexpected second entry: %+v", contents[1])
	}
}

func TestLog_UserContent(t *testing.T) {
	log := conversation.NewLog()
	if got := log.UserContent(); got != "" {
		t.Errorf("UserContent() on empty log = %q, want empty", got)
	}

	log.AddAssistantContent("entity.kitchen", "hello")
	log.AddUserContent("first")
	log.AddUserContent("second")

	if got := log.UserContent(); got != "first" {
		t.Errorf("UserContent() = %q, want %q", got, "first")
	}
}

func TestLog_ContentsIsACopy(t *testing.T) {
	log := conversation.NewLog()
	log.AddUserContent("original")

	contents := log.Contents()
	contents[0].Text = "mutated"

	if log.Contents()[0].Text != "original" {
		t.Error("mutating the returned slice changed the log")
	}
}
