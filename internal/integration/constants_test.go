package integration_test

const (
	cacheImageName = "redis:7"

	testMovieID       = 7
	testShowID        = 70
	testReservationID = 1001
	testSeats         = 12

	testEmail    = "ada@example.com"
	testPassword = "secret123"
	testUserJSON = `{"id":3,"name":"Ada Lovelace","email":"ada@example.com","age":36,"gender":"Female"}`
)
