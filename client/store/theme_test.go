package store

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ThemeStore", func() {
	var persister *FilePersister

	BeforeEach(func() {
		persister = NewFilePersister(filepath.Join(GinkgoT().TempDir(), "state.json"))
	})

	It("should follow the system theme by default", func() {
		GinkgoT().Setenv("AIU_THEME", "dark")

		sut := NewThemeStore(persister)
		Expect(sut.Theme()).To(Equal(ThemeSystem))
		Expect(sut.ActualTheme()).To(Equal(ThemeDark))
	})

	It("should persist an explicit theme", func() {
		sut := NewThemeStore(persister)
		Expect(sut.SetTheme(ThemeLight)).To(Succeed())
		Expect(sut.ActualTheme()).To(Equal(ThemeLight))

		reloaded := NewThemeStore(persister)
		Expect(reloaded.Theme()).To(Equal(ThemeLight))
	})

	It("should reject unknown themes", func() {
		sut := NewThemeStore(persister)
		Expect(sut.SetTheme("sepia")).To(MatchError(ErrInvalidTheme))
	})

	It("should pick up system changes on refresh", func() {
		GinkgoT().Setenv("AIU_THEME", "light")
		sut := NewThemeStore(nil)
		Expect(sut.ActualTheme()).To(Equal(ThemeLight))

		GinkgoT().Setenv("AIU_THEME", "dark")
		sut.Refresh()
		Expect(sut.ActualTheme()).To(Equal(ThemeDark))
	})

	DescribeTable("should read COLORFGBG",
		func(value string, expected Theme) {
			GinkgoT().Setenv("AIU_THEME", "")
			GinkgoT().Setenv("COLORFGBG", value)
			Expect(DetectSystemTheme()).To(Equal(expected))
		},
		Entry("dark background", "15;0", ThemeDark),
		Entry("light background", "0;15", ThemeLight),
		Entry("three fields", "0;default;15", ThemeLight),
		Entry("garbage", "x", ThemeLight),
	)
})
