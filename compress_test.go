package densemap_test

import (
	"github.com/bsm/densemap"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Map.Compress", func() {
	var subject *densemap.Map

	BeforeEach(func() {
		var err error
		subject, err = seedMap(nil, 10000)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should shrink the byte size", func() {
		plain := subject.Stats().ByteSize
		subject.Compress()
		Expect(subject.Stats().ByteSize).To(BeNumerically("<", plain/2))
	})

	It("should not affect reads", func() {
		subject.Compress()

		for i := 0; i < 10000; i++ {
			Expect(subject.Get(int64(i * 4))).To(Equal(i%7), "for key %d", i*4)
		}
		Expect(subject.Get(1)).To(Equal(-1))
		Expect(subject.Get(40000)).To(Equal(-1))
		Expect(subject.Get(-1)).To(Equal(-1))
	})

	It("should preserve width stats", func() {
		plain := subject.Stats().BlocksByWidth
		subject.Compress()
		Expect(subject.Stats().BlocksByWidth).To(Equal(plain))
	})

	It("should be repeatable", func() {
		subject.Compress()
		size := subject.Stats().ByteSize
		subject.Compress()
		Expect(subject.Stats().ByteSize).To(Equal(size))
	})

	It("should thaw blocks on write", func() {
		subject.Compress()

		Expect(subject.Put(0, 6)).To(Succeed())
		Expect(subject.Get(0)).To(Equal(6))
		Expect(subject.Get(4)).To(Equal(1))

		// the written block is plain again, the rest stays frozen
		subject.Compress()
		Expect(subject.Get(0)).To(Equal(6))
	})

	It("should compress blocks created after an earlier pass", func() {
		subject.Compress()
		size := subject.Stats().ByteSize

		Expect(subject.Put(50000, 3)).To(Succeed())
		subject.Compress()

		Expect(subject.Get(50000)).To(Equal(3))
		Expect(subject.Stats().ByteSize).To(BeNumerically("<", size+100))
	})
})
