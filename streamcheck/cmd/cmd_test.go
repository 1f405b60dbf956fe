package cmd

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/sarchlab/streamcheck/config"
	"github.com/sarchlab/streamcheck/models"
)

var _ = Describe("Flags", func() {
	var c *cobra.Command

	BeforeEach(func() {
		c = &cobra.Command{Use: "test"}
		addSettingFlags(c)
	})

	It("should only override flags that are set", func() {
		Expect(c.ParseFlags([]string{
			"--seed=7",
			"--models=fifo,fork",
			"--valid-bias=1",
			"--policy=arbiterRoundRobin=sequential.noLock",
		})).To(Succeed())

		cfg := config.Default()
		cfg.Target = 5

		Expect(applyFlags(c, &cfg)).To(Succeed())

		Expect(cfg.Seed).To(Equal(int64(7)))
		Expect(cfg.Target).To(Equal(uint64(5)))
		Expect(cfg.Models).To(Equal([]string{"fifo", "fork"}))
		Expect(*cfg.Valid.Fixed).To(Equal(1.0))
		Expect(cfg.Ready.Fixed).To(BeNil())
		Expect(cfg.Policies).To(HaveKeyWithValue("arbiterRoundRobin",
			models.Policy{Priority: models.Sequential, Lock: models.NoLock}))
	})

	It("should go back to drifting with a negative bias", func() {
		Expect(c.ParseFlags([]string{"--ready-bias=-1"})).To(Succeed())

		cfg := config.Default()
		bias := 0.5
		cfg.Ready.Fixed = &bias

		Expect(applyFlags(c, &cfg)).To(Succeed())
		Expect(cfg.Ready.Fixed).To(BeNil())
	})

	It("should reject malformed policies", func() {
		Expect(c.ParseFlags([]string{
			"--policy=arbiterRoundRobin=fair",
		})).To(Succeed())

		cfg := config.Default()

		Expect(applyFlags(c, &cfg)).ToNot(Succeed())
	})
})

var _ = Describe("Commands", func() {
	var out *bytes.Buffer

	BeforeEach(func() {
		out = new(bytes.Buffer)
		rootCmd.SetOut(out)
		DeferCleanup(func() {
			rootCmd.SetOut(nil)
			rootCmd.SetArgs(nil)
		})
	})

	It("should list the models", func() {
		rootCmd.SetArgs([]string{"models"})

		Expect(rootCmd.Execute()).To(Succeed())
		Expect(out.String()).To(MatchRegexp(
			`standard\s+arbiterRoundRobin\s+roundRobin\.transactionLock`))
		Expect(out.String()).To(ContainSubstring("fifoB"))
	})

	It("should run a suite and record it", func() {
		dir := GinkgoT().TempDir()
		record := filepath.Join(dir, "run")

		rootCmd.SetArgs([]string{"run",
			"--env", filepath.Join(dir, "none.env"),
			"--suite", "fifo",
			"--seed", "3",
			"--target", "50",
			"--record", record,
			"--stats",
		})

		Expect(rootCmd.Execute()).To(Succeed())
		Expect(out.String()).To(HavePrefix("PASSED"))
		Expect(out.String()).To(MatchRegexp(`fifoA\s+out\s+0\s+\d+`))

		_, err := os.Stat(record + ".sqlite3")
		Expect(err).ToNot(HaveOccurred())
	})
})
