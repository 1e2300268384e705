package koa_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestKoa(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "koa")
}
