package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock redismock.ClientMock)
		want      string
		wantFound bool
		wantErr   bool
	}{
		{
			name: "existing key",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectGet("studytracker:activity").SetVal("payload")
			},
			want:      "payload",
			wantFound: true,
		},
		{
			name: "missing key",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectGet("studytracker:activity").RedisNil()
			},
			wantFound: false,
		},
		{
			name: "connection error",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectGet("studytracker:activity").SetErr(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			tt.setupMock(mock)

			got, found, err := NewRedisStore(client, "studytracker:").Get(context.Background(), "activity")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantFound, found)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisStore_Set(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock redismock.ClientMock)
		wantErr   bool
	}{
		{
			name: "stores without expiration",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectSet("studytracker:activity", "payload", 0).SetVal("OK")
			},
		},
		{
			name: "connection error",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectSet("studytracker:activity", "payload", 0).SetErr(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			tt.setupMock(mock)

			err := NewRedisStore(client, "studytracker:").Set(context.Background(), "activity", "payload")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
