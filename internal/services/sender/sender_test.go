package sender

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	smtplib "github.com/magabrotheeeer/gym-membership/internal/lib/smtp"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtplib.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtplib.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
	written []byte
}

func (m *MockSMTPWriter) Write(p []byte) (int, error) {
	m.written = append(m.written, p...)
	args := m.Called(p)
	return len(p), args.Error(0)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func expectSuccessfulSend(transport *MockTransport, client *MockSMTPClient, writer *MockSMTPWriter, recipient string) {
	transport.On("GetSMTPUser").Return("noreply@gym.local")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@gym.local").Return(nil).Once()
	client.On("Rcpt", recipient).Return(nil).Once()
	client.On("Data").Return(writer, nil).Once()
	writer.On("Write", mock.Anything).Return(nil).Once()
	writer.On("Close").Return(nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()
}

func TestService_SendExpiringMembership(t *testing.T) {
	info := models.MemberInfo{
		Email:    "member@example.com",
		FullName: "Ivan Petrov",
		PlanName: "Gold",
		EndDate:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(info)
	assert.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		transport := new(MockTransport)
		client := new(MockSMTPClient)
		writer := new(MockSMTPWriter)
		expectSuccessfulSend(transport, client, writer, info.Email)

		service := New(transport, newNoopLogger())
		err := service.SendExpiringMembership(body)

		assert.NoError(t, err)
		assert.Contains(t, string(writer.written), "Gold")
		assert.Contains(t, string(writer.written), "15.06.2025")
		transport.AssertExpectations(t)
		client.AssertExpectations(t)
		writer.AssertExpectations(t)
	})

	t.Run("invalid json body", func(t *testing.T) {
		transport := new(MockTransport)
		service := New(transport, newNoopLogger())

		err := service.SendExpiringMembership([]byte("{not json"))

		assert.Error(t, err)
		transport.AssertNotCalled(t, "Connect")
	})

	t.Run("connect error", func(t *testing.T) {
		transport := new(MockTransport)
		transport.On("GetSMTPUser").Return("noreply@gym.local")
		transport.On("Connect").Return(nil, errors.New("dial error")).Once()

		service := New(transport, newNoopLogger())
		err := service.SendExpiringMembership(body)

		assert.Error(t, err)
		transport.AssertExpectations(t)
	})

	t.Run("rcpt error", func(t *testing.T) {
		transport := new(MockTransport)
		client := new(MockSMTPClient)
		transport.On("GetSMTPUser").Return("noreply@gym.local")
		transport.On("Connect").Return(client, nil).Once()
		client.On("Mail", "noreply@gym.local").Return(nil).Once()
		client.On("Rcpt", info.Email).Return(errors.New("mailbox unavailable")).Once()
		client.On("Close").Return(nil).Once()

		service := New(transport, newNoopLogger())
		err := service.SendExpiringMembership(body)

		assert.Error(t, err)
		client.AssertExpectations(t)
	})
}

func TestService_SendOTP(t *testing.T) {
	message := models.OTPMessage{
		Email: "admin@gym.local",
		Code:  "483920",
	}
	body, err := json.Marshal(message)
	assert.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		transport := new(MockTransport)
		client := new(MockSMTPClient)
		writer := new(MockSMTPWriter)
		expectSuccessfulSend(transport, client, writer, message.Email)

		service := New(transport, newNoopLogger())
		err := service.SendOTP(body)

		assert.NoError(t, err)
		assert.Contains(t, string(writer.written), "483920")
		transport.AssertExpectations(t)
		client.AssertExpectations(t)
		writer.AssertExpectations(t)
	})

	t.Run("invalid json body", func(t *testing.T) {
		transport := new(MockTransport)
		service := New(transport, newNoopLogger())

		err := service.SendOTP([]byte("oops"))

		assert.Error(t, err)
		transport.AssertNotCalled(t, "Connect")
	})
}
