// babiesctl - консольный клиент профилей малышей поверх слоя синхронизации.
//
// Каждая команда: состояние из файла -> Refresh -> операция -> вывод.
// Уведомления операций пишутся в stderr, данные - в stdout.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
