package services

import (
	"testing"

	"github.com/readhaven/readhaven/db"
	"github.com/readhaven/readhaven/models"
)

// fakeChatNotifier records chat pushes.
type fakeChatNotifier struct {
	toUsers  map[uint][]capturedEvent
	toAdmins []capturedEvent
}

func newFakeChatNotifier() *fakeChatNotifier {
	return &fakeChatNotifier{toUsers: make(map[uint][]capturedEvent)}
}

func (f *fakeChatNotifier) EmitToUser(userID uint, event string, payload interface{}) error {
	f.toUsers[userID] = append(f.toUsers[userID], capturedEvent{event: event, payload: payload})
	return nil
}

func (f *fakeChatNotifier) EmitToAdmins(event string, payload interface{}) {
	f.toAdmins = append(f.toAdmins, capturedEvent{event: event, payload: payload})
}

func setupChatTest(t *testing.T) (*db.GormDB, ChatService, *fakeChatNotifier) {
	t.Helper()
	gdb := newTestDB(t)
	notifier := newFakeChatNotifier()
	svc := NewChatService(db.NewChatRepo(gdb), db.NewAuthRepo(gdb), notifier)
	return gdb, svc, notifier
}

func TestGetOrCreateChatSeedsWelcomeMessage(t *testing.T) {
	gdb, svc, _ := setupChatTest(t)

	admin := createTestUser(t, gdb, "admin1", models.RoleAdmin)
	alice := createTestUser(t, gdb, "alice", models.RoleUser)

	chat, apiErr := svc.GetOrCreateChat(alice.ID)
	if apiErr != nil {
		t.Fatalf("GetOrCreateChat: %v", apiErr)
	}
	if chat.UserID != alice.ID {
		t.Fatalf("expected chat for alice, got user %d", chat.UserID)
	}
	if len(chat.Messages) != 1 {
		t.Fatalf("expected 1 welcome message, got %d", len(chat.Messages))
	}
	welcome := chat.Messages[0]
	if welcome.Content != db.WelcomeMessage || !welcome.IsAdmin || welcome.UserID != admin.ID {
		t.Fatalf("unexpected welcome message: %+v", welcome)
	}

	// second call returns the same chat without another welcome
	again, apiErr := svc.GetOrCreateChat(alice.ID)
	if apiErr != nil {
		t.Fatalf("second GetOrCreateChat: %v", apiErr)
	}
	if again.ID != chat.ID || len(again.Messages) != 1 {
		t.Fatalf("expected same chat with 1 message, got id=%d messages=%d", again.ID, len(again.Messages))
	}
}

func TestCreateMessageFansOutToAdmins(t *testing.T) {
	gdb, svc, notifier := setupChatTest(t)

	createTestUser(t, gdb, "admin1", models.RoleAdmin)
	alice := createTestUser(t, gdb, "alice", models.RoleUser)

	message, apiErr := svc.CreateMessage(&models.CreateMessageRequest{
		Content: "I need help finding a book",
	}, alice)
	if apiErr != nil {
		t.Fatalf("CreateMessage: %v", apiErr)
	}
	if message.IsAdmin {
		t.Fatal("user message must not be flagged as admin")
	}

	if len(notifier.toAdmins) != 1 {
		t.Fatalf("expected 1 admin fan-out, got %d", len(notifier.toAdmins))
	}
	if notifier.toAdmins[0].event != EventChatMessage {
		t.Fatalf("unexpected event %q", notifier.toAdmins[0].event)
	}
	if len(notifier.toUsers[alice.ID]) != 1 {
		t.Fatalf("expected the author to receive an echo, got %d", len(notifier.toUsers[alice.ID]))
	}
}

func TestAdminReplyGoesToChatOwner(t *testing.T) {
	gdb, svc, notifier := setupChatTest(t)

	admin := createTestUser(t, gdb, "admin1", models.RoleAdmin)
	alice := createTestUser(t, gdb, "alice", models.RoleUser)

	if _, apiErr := svc.CreateMessage(&models.CreateMessageRequest{Content: "hello"}, alice); apiErr != nil {
		t.Fatalf("user message: %v", apiErr)
	}

	reply, apiErr := svc.CreateMessage(&models.CreateMessageRequest{
		Content:    "How can I help?",
		ChatUserID: alice.ID,
	}, admin)
	if apiErr != nil {
		t.Fatalf("admin reply: %v", apiErr)
	}
	if !reply.IsAdmin {
		t.Fatal("admin reply must be flagged as admin")
	}

	// one echo of her own message plus the admin reply
	if len(notifier.toUsers[alice.ID]) != 2 {
		t.Fatalf("expected 2 pushes to alice, got %d", len(notifier.toUsers[alice.ID]))
	}
	last := notifier.toUsers[alice.ID][1]
	if last.event != EventChatMessage {
		t.Fatalf("unexpected event %q", last.event)
	}

	chat, apiErr := svc.GetOrCreateChat(alice.ID)
	if apiErr != nil {
		t.Fatalf("GetOrCreateChat: %v", apiErr)
	}
	// welcome + user message + admin reply
	if len(chat.Messages) != 3 {
		t.Fatalf("expected 3 messages in chat, got %d", len(chat.Messages))
	}
}

func TestGetChatForAdminMarksMessagesViewed(t *testing.T) {
	gdb, svc, _ := setupChatTest(t)

	createTestUser(t, gdb, "admin1", models.RoleAdmin)
	alice := createTestUser(t, gdb, "alice", models.RoleUser)

	if _, apiErr := svc.CreateMessage(&models.CreateMessageRequest{Content: "anyone there?"}, alice); apiErr != nil {
		t.Fatalf("user message: %v", apiErr)
	}

	chat, apiErr := svc.GetChatForAdmin(alice.ID)
	if apiErr != nil {
		t.Fatalf("GetChatForAdmin: %v", apiErr)
	}

	var unviewed int64
	gdb.DB.Model(&models.Message{}).
		Where("chat_id = ? AND is_admin = ? AND viewed = ?", chat.ID, false, false).
		Count(&unviewed)
	if unviewed != 0 {
		t.Fatalf("expected user messages marked viewed, %d remain", unviewed)
	}
}

func TestGetChatForAdminMissingChat(t *testing.T) {
	gdb, svc, _ := setupChatTest(t)

	createTestUser(t, gdb, "admin1", models.RoleAdmin)
	alice := createTestUser(t, gdb, "alice", models.RoleUser)

	if _, apiErr := svc.GetChatForAdmin(alice.ID); apiErr == nil {
		t.Fatal("expected not-found for user without a chat")
	}
}

func TestListChatUsersExcludesAdminsAndSearches(t *testing.T) {
	gdb, svc, _ := setupChatTest(t)

	createTestUser(t, gdb, "admin1", models.RoleAdmin)
	createTestUser(t, gdb, "alice", models.RoleUser)
	createTestUser(t, gdb, "bob", models.RoleUser)

	users, err := svc.ListChatUsers("")
	if err != nil {
		t.Fatalf("ListChatUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 chat users, got %d", len(users))
	}
	for _, u := range users {
		if u.Name == "admin1" {
			t.Fatal("admins must not appear in the chat user list")
		}
	}

	users, err = svc.ListChatUsers("ALI")
	if err != nil {
		t.Fatalf("ListChatUsers with search: %v", err)
	}
	if len(users) != 1 || users[0].Name != "alice" {
		t.Fatalf("expected search to match alice, got %+v", users)
	}
}
