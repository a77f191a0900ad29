package version

import "fmt"

// Service — имя сервиса в логах и health-ответах.
const Service = "ordenes-api"

// Заполняются через -ldflags при сборке релиза.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// String возвращает строку вида "ordenes-api dev (unknown, unknown)".
func String() string {
	return fmt.Sprintf("%s %s (%s, %s)", Service, version, commit, date)
}
