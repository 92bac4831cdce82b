package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RateLimitStore --dir ../domain/gate --output domain/gate --outpkg gatemock --filename rate_limit_store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name EventLookup --dir ../domain/gate --output domain/gate --outpkg gatemock --filename event_lookup_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PaymentLookup --dir ../domain/gate --output domain/gate --outpkg gatemock --filename payment_lookup_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/matchevent --output domain/matchevent --outpkg matcheventmock --filename repository_mock.go
