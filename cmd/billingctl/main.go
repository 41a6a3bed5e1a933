// billingctl tareas operativas de facturación: migraciones, generación de cuotas y tokens.
//
// Uso: go run ./cmd/billingctl <comando> [flags]
// Lee .env del directorio actual si existe; las variables de entorno tienen prioridad.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env opcional: en producción la configuración llega por entorno
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
