//go:build unit

package vehicle_test

import (
	"testing"
	"time"

	"vehicle-reservation/internal/domain/vehicle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVehicle(t *testing.T) {
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	valid := vehicle.Spec{Model: " Toyota Corolla ", Year: 2022, DailyRate: 1000, Seats: 5, Automatic: true}

	t.Run("基本成功ケース", func(t *testing.T) {
		v, err := vehicle.NewVehicle(uuid.New(), valid, now)
		require.NoError(t, err)
		assert.Equal(t, "Toyota Corolla", v.Model())
		assert.True(t, v.IsBookable())
	})

	cases := []struct {
		name   string
		mutate func(*vehicle.Spec)
		errIs  error
	}{
		{name: "空のモデル名NG", mutate: func(s *vehicle.Spec) { s.Model = "  " }, errIs: vehicle.ErrEmptyModel},
		{name: "年式が古すぎるNG", mutate: func(s *vehicle.Spec) { s.Year = 1900 }, errIs: vehicle.ErrInvalidYear},
		{name: "翌年モデルOK", mutate: func(s *vehicle.Spec) { s.Year = 2025 }},
		{name: "負の日額NG", mutate: func(s *vehicle.Spec) { s.DailyRate = -1 }, errIs: vehicle.ErrNegativeDailyRate},
		{name: "座席数0NG", mutate: func(s *vehicle.Spec) { s.Seats = 0 }, errIs: vehicle.ErrInvalidSeats},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := valid
			tc.mutate(&spec)
			_, err := vehicle.NewVehicle(uuid.New(), spec, now)
			if tc.errIs == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.errIs)
		})
	}
}
