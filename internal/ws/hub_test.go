package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onerilhan/go-songbid-api/internal/models"
)

// testClient pump'sız, sadece send buffer'ı olan istemci oluşturur
func testClient(userID, eventID, buffer int) *Client {
	return &Client{
		send:    make(chan []byte, buffer),
		userID:  userID,
		eventID: eventID,
	}
}

// receive istemcinin kuyruğundaki mesajı çözer
func receive(t *testing.T, c *Client) *models.BroadcastMessage {
	t.Helper()
	select {
	case data := <-c.send:
		var msg models.BroadcastMessage
		assert.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	default:
		t.Fatal("beklenen mesaj kuyruğa gelmedi")
		return nil
	}
}

// TestHub_BroadcastToEvent, mesajın sadece etkinlik abonelerine gittiğini test eder.
func TestHub_BroadcastToEvent(t *testing.T) {
	// Arrange
	hub := NewHub()
	subscriber := testClient(1, 3, 4)
	otherEvent := testClient(2, 9, 4)
	hub.Register(subscriber)
	hub.Register(otherEvent)

	// Act
	hub.BroadcastToEvent(3, &models.BroadcastMessage{
		Type:    models.MessageTypeEventUpdate,
		EventID: 3,
	})

	// Assert
	msg := receive(t, subscriber)
	assert.Equal(t, models.MessageTypeEventUpdate, msg.Type)
	assert.Equal(t, 3, msg.EventID)
	assert.Empty(t, otherEvent.send)
}

// TestHub_SendToUser, mesajın sadece hedef kullanıcıya gittiğini test eder.
func TestHub_SendToUser(t *testing.T) {
	// Arrange
	hub := NewHub()
	target := testClient(1, 3, 4)
	bystander := testClient(2, 3, 4)
	hub.Register(target)
	hub.Register(bystander)

	// Act
	hub.SendToUser(1, &models.BroadcastMessage{
		Type:   models.MessageTypeUserUpdate,
		UserID: 1,
	})

	// Assert
	msg := receive(t, target)
	assert.Equal(t, models.MessageTypeUserUpdate, msg.Type)
	assert.Empty(t, bystander.send)
}

// TestHub_SendToUser_NoConnection, bağlantısı olmayan kullanıcıya gönderimin no-op olduğunu test eder.
func TestHub_SendToUser_NoConnection(t *testing.T) {
	// Arrange
	hub := NewHub()

	// Act & Assert: panic olmamalı
	hub.SendToUser(99, &models.BroadcastMessage{Type: models.MessageTypeUserUpdate})
	assert.Equal(t, 0, hub.ClientCount())
}

// TestHub_Register_ReplacesUserConnection, aynı kullanıcının yeni bağlantısının
// eskisinin yerini aldığını test eder (kullanıcı başına tek bağlantı).
func TestHub_Register_ReplacesUserConnection(t *testing.T) {
	// Arrange
	hub := NewHub()
	oldConn := testClient(1, 3, 4)
	newConn := testClient(1, 3, 4)

	hub.Register(oldConn)
	hub.Register(newConn)

	// Act
	hub.SendToUser(1, &models.BroadcastMessage{Type: models.MessageTypeUserUpdate})

	// Assert: mesaj yeni bağlantıya gider, eski düşürülmüştür
	assert.Equal(t, 1, hub.ClientCount())
	msg := receive(t, newConn)
	assert.Equal(t, models.MessageTypeUserUpdate, msg.Type)

	// eski bağlantının kanalı kapatılmıştır
	_, open := <-oldConn.send
	assert.False(t, open)
}

// TestHub_SlowClientDropped, buffer'ı dolu bağlantının sessizce düşürüldüğünü test eder.
func TestHub_SlowClientDropped(t *testing.T) {
	// Arrange: buffer 1, ilk mesaj doldurur
	hub := NewHub()
	slow := testClient(1, 3, 1)
	healthy := testClient(2, 3, 4)
	hub.Register(slow)
	hub.Register(healthy)

	// Act: iki mesaj; ikincisi slow'un buffer'ına sığmaz
	hub.BroadcastToEvent(3, &models.BroadcastMessage{Type: models.MessageTypeEventUpdate})
	hub.BroadcastToEvent(3, &models.BroadcastMessage{Type: models.MessageTypeEventUpdate})

	// Assert: slow düşürüldü, sağlıklı bağlantı iki mesajı da aldı
	assert.Equal(t, 1, hub.ClientCount())
	assert.Len(t, healthy.send, 2)
}

// TestHub_Unregister, bağlantının tüm eşlemelerden silindiğini test eder.
func TestHub_Unregister(t *testing.T) {
	// Arrange
	hub := NewHub()
	c := testClient(1, 3, 4)
	hub.Register(c)

	// Act
	hub.Unregister(c)

	// Assert
	assert.Equal(t, 0, hub.ClientCount())
	hub.BroadcastToEvent(3, &models.BroadcastMessage{Type: models.MessageTypeEventUpdate})
	_, open := <-c.send
	assert.False(t, open)
}

// TestHub_BroadcastToAll, mesajın etkinlikten bağımsız tüm bağlantılara gittiğini test eder.
func TestHub_BroadcastToAll(t *testing.T) {
	// Arrange
	hub := NewHub()
	a := testClient(1, 3, 4)
	b := testClient(2, 9, 4)
	c := testClient(3, 0, 4)
	hub.Register(a)
	hub.Register(b)
	hub.Register(c)

	// Act
	hub.BroadcastToAll(&models.BroadcastMessage{Type: models.MessageTypeSystem})

	// Assert
	assert.Len(t, a.send, 1)
	assert.Len(t, b.send, 1)
	assert.Len(t, c.send, 1)
}

// TestHub_Shutdown, tüm bağlantıların kapatılıp sayacın sıfırlandığını test eder.
func TestHub_Shutdown(t *testing.T) {
	// Arrange
	hub := NewHub()
	a := testClient(1, 3, 4)
	b := testClient(2, 3, 4)
	hub.Register(a)
	hub.Register(b)

	// Act
	hub.Shutdown()

	// Assert
	assert.Equal(t, 0, hub.ClientCount())
	_, openA := <-a.send
	_, openB := <-b.send
	assert.False(t, openA)
	assert.False(t, openB)
}
