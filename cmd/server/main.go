package main

import (
	"go.uber.org/fx"

	"github.com/tonzxz12/Findr-sub000/internal/container"
)

func main() {
	app := fx.New(container.Module)
	app.Run()
}
